// Package presenter renders terms and prompts as localized chat text.
//
// Every Localizer carries its own language tag and message printer, so a
// conversation resolves its locale once and never touches shared mutable
// translation state.
package presenter

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/heartmarshall/terminology-bot/internal/domain"
)

// Supported locales, first is the fallback.
var supported = []language.Tag{language.English, language.Russian}

var matcher = language.NewMatcher(supported)

var translations = map[language.Tag]map[string]string{
	language.English: english,
	language.Russian: russian,
}

// messages is the read-only catalog shared by all localizers.
var messages = sync.OnceValue(func() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("presenter: catalog %s %q: %v", tag, key, err))
			}
		}
	}
	return b
})

// Localizer renders text for one locale.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
	labels  map[string]string // normalized label text -> label key
}

// New returns a Localizer for the best supported match of locale
// (a BCP 47 tag such as "ru" or "en-US"). Unknown or empty locales fall
// back to English.
func New(locale string) *Localizer {
	tag := language.English
	if parsed, err := language.Parse(locale); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}

	l := &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messages())),
		labels:  make(map[string]string, len(labelKeys)*2),
	}

	// English labels are always recognised so typed commands work in any locale.
	for _, t := range []language.Tag{language.English, tag} {
		for _, key := range labelKeys {
			l.labels[domain.NormalizeText(translations[t][key])] = key
		}
	}

	return l
}

// Locale returns the resolved locale as a base language code ("en", "ru").
func (l *Localizer) Locale() string {
	base, _ := l.tag.Base()
	return base.String()
}

// T formats the message registered under key.
func (l *Localizer) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// Label returns the button text for a label key.
func (l *Localizer) Label(key string) string {
	return l.printer.Sprintf(key)
}

// MatchLabel maps user input back to a label key. Matching ignores case
// and surrounding whitespace.
func (l *Localizer) MatchLabel(input string) (string, bool) {
	key, ok := l.labels[domain.NormalizeText(input)]
	return key, ok
}

// POSLabel returns the localized name of a part of speech.
func (l *Localizer) POSLabel(p domain.PartOfSpeech) string {
	return l.printer.Sprintf(posKey(string(p)))
}

// ParsePOS accepts either the localized or the canonical English name.
func (l *Localizer) ParsePOS(input string) (domain.PartOfSpeech, bool) {
	text := domain.NormalizeText(input)
	for _, p := range domain.PartsOfSpeech {
		if text == string(p) || text == domain.NormalizeText(l.POSLabel(p)) {
			return p, true
		}
	}
	return "", false
}

// MediaLabel returns the localized name of a media kind.
func (l *Localizer) MediaLabel(k domain.MediaKind) string {
	return l.printer.Sprintf(mediaKey(string(k)))
}

// POSList joins the localized part-of-speech names for prompts.
func (l *Localizer) POSList() string {
	names := make([]string, len(domain.PartsOfSpeech))
	for i, p := range domain.PartsOfSpeech {
		names[i] = l.POSLabel(p)
	}
	return strings.Join(names, ", ")
}
