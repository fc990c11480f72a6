package publish

import (
	"fmt"
	"strings"
)

// Page is the wiki rendition of one term.
type Page struct {
	Title        string
	Description  string
	PartOfSpeech string
	Synonyms     []string
	SimilarWords []string
	// Media sections in display order: Photo, Audio, Video.
	Media []MediaFile
}

// MediaFile is an uploaded attachment embedded in the Media section.
type MediaFile struct {
	Section     string
	FileName    string
	Description string
}

// Render produces wikitext. Sections appear in a fixed order: Description,
// Part of speech, Synonyms, Similar words, then a Media section with one
// subsection per attachment. Empty sections are omitted.
func (p Page) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", p.Title)

	section := func(title, body string) {
		if body == "" {
			return
		}
		fmt.Fprintf(&b, "==%s==\n%s\n", title, body)
	}
	section("Description", p.Description)
	section("Part of speech", p.PartOfSpeech)
	section("Synonyms", strings.Join(p.Synonyms, ", "))
	section("Similar words", strings.Join(p.SimilarWords, ", "))

	if len(p.Media) > 0 {
		b.WriteString("==Media==\n")
		for _, m := range p.Media {
			fmt.Fprintf(&b, "===%s===\n[[File:%s|%s]]\n", m.Section, m.FileName, m.Description)
		}
	}

	return b.String()
}
