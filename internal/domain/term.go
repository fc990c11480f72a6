package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTermNameLength bounds a normalized term name in runes.
const MaxTermNameLength = 256

// ValidateTermName checks a normalized term name.
func ValidateTermName(name string) error {
	if name == "" {
		return NewValidationError("name", "required")
	}
	if utf8.RuneCountInString(name) > MaxTermNameLength {
		return NewValidationError("name", "too long")
	}
	return nil
}

// Term is a glossary entry. Names are normalized but not unique.
type Term struct {
	ID           uuid.UUID
	Name         string
	PartOfSpeech *PartOfSpeech
	Description  *string
	Image        *string
	Audio        *string
	Video        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Media returns the logical media name stored for kind, or nil.
func (t Term) Media(kind MediaKind) *string {
	switch kind {
	case MediaImage:
		return t.Image
	case MediaAudio:
		return t.Audio
	case MediaVideo:
		return t.Video
	}
	return nil
}

// AttachedMedia lists the media kinds that have a stored reference.
func (t Term) AttachedMedia() []MediaKind {
	var kinds []MediaKind
	for _, k := range MediaKinds {
		if t.Media(k) != nil {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// MediaName returns the logical name under which media of the given kind
// is stored for a term. It depends only on kind and term id, so a new
// upload of the same kind replaces the previous one.
func MediaName(kind MediaKind, termID uuid.UUID) string {
	return string(kind) + "_" + termID.String()
}

// ParseMediaName splits a logical media name produced by MediaName.
func ParseMediaName(name string) (MediaKind, uuid.UUID, error) {
	kind, rawID, ok := strings.Cut(name, "_")
	if !ok || !MediaKind(kind).IsValid() {
		return "", uuid.Nil, NewValidationError("media_name", "malformed")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return "", uuid.Nil, NewValidationError("media_name", "malformed")
	}
	return MediaKind(kind), id, nil
}
