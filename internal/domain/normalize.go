package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText is the canonical form of a term name: NFC composed,
// lower-cased, with whitespace runs collapsed to one space and the ends
// trimmed. Diacritics, hyphens and apostrophes are kept, so "e" followed
// by a combining acute and a precomposed "é" compare equal.
func NormalizeText(text string) string {
	// A Caser is stateful, so one is made per call.
	return cases.Lower(language.Und).String(norm.NFC.String(strings.Join(strings.Fields(text), " ")))
}
