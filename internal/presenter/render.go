package presenter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/heartmarshall/terminology-bot/internal/domain"
)

const candidateDescriptionRunes = 60

// TermProfile is a term together with its related terms.
type TermProfile struct {
	Term     domain.Term
	Synonyms []domain.Term
	Similars []domain.Term
}

// RenderTermProfile renders the capitalised name followed by one line per
// attribute. Unset attributes are shown as "not set".
func (l *Localizer) RenderTermProfile(p TermProfile) string {
	notSet := l.T(fieldNotSet)

	pos := notSet
	if p.Term.PartOfSpeech != nil {
		pos = l.POSLabel(*p.Term.PartOfSpeech)
	}

	description := notSet
	if p.Term.Description != nil {
		description = *p.Term.Description
	}

	media := notSet
	if kinds := p.Term.AttachedMedia(); len(kinds) > 0 {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = l.MediaLabel(k)
		}
		media = strings.Join(names, ", ")
	}

	var b strings.Builder
	b.WriteString(l.capitalize(p.Term.Name))
	fmt.Fprintf(&b, "\n%s: %s", l.T(fieldPOS), pos)
	fmt.Fprintf(&b, "\n%s: %s", l.T(fieldDescription), description)
	fmt.Fprintf(&b, "\n%s: %s", l.T(fieldSynonyms), orNotSet(termNames(p.Synonyms), notSet))
	fmt.Fprintf(&b, "\n%s: %s", l.T(fieldSimilars), orNotSet(termNames(p.Similars), notSet))
	fmt.Fprintf(&b, "\n%s: %s", l.T(fieldMedia), media)
	return b.String()
}

// RenderTermListing renders terms as "1. name" lines, numbered from one.
func (l *Localizer) RenderTermListing(terms []domain.Term) string {
	lines := make([]string, len(terms))
	for i, t := range terms {
		lines[i] = fmt.Sprintf("%d. %s", i+1, t.Name)
	}
	return strings.Join(lines, "\n")
}

// RenderCandidates renders same-named terms with enough detail to tell
// them apart: part of speech and the start of the description.
func (l *Localizer) RenderCandidates(terms []domain.Term) string {
	lines := make([]string, len(terms))
	for i, t := range terms {
		line := fmt.Sprintf("%d. %s", i+1, t.Name)
		if t.PartOfSpeech != nil {
			line += " (" + l.POSLabel(*t.PartOfSpeech) + ")"
		}
		if t.Description != nil {
			line += ": " + truncate(*t.Description, candidateDescriptionRunes)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// JoinNames renders a comma-separated list of names.
func JoinNames(names []string) string {
	return strings.Join(names, ", ")
}

func (l *Localizer) capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return cases.Upper(l.tag).String(string(r)) + s[size:]
}

func termNames(terms []domain.Term) string {
	names := make([]string, len(terms))
	for i, t := range terms {
		names[i] = t.Name
	}
	return JoinNames(names)
}

func orNotSet(s, notSet string) string {
	if s == "" {
		return notSet
	}
	return s
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
