package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxDescriptionLength bounds a term description in runes.
const MaxDescriptionLength = 4000

// UpdateTermCommand is a single attribute change for one term.
// The concrete variants are SetPartOfSpeech, SetDescription and SetMedia.
type UpdateTermCommand interface {
	// Attribute names the term attribute the command writes.
	Attribute() string
	Validate() error

	updateTermCommand()
}

// SetPartOfSpeech sets the part-of-speech tag.
type SetPartOfSpeech struct {
	Value PartOfSpeech
}

func (SetPartOfSpeech) Attribute() string { return "part_of_speech" }

func (c SetPartOfSpeech) Validate() error {
	if !c.Value.IsValid() {
		return NewValidationError("part_of_speech", "must be one of noun, verb, adjective")
	}
	return nil
}

func (SetPartOfSpeech) updateTermCommand() {}

// SetDescription sets the free-text description.
type SetDescription struct {
	Value string
}

func (SetDescription) Attribute() string { return "description" }

func (c SetDescription) Validate() error {
	text := strings.TrimSpace(c.Value)
	if text == "" {
		return NewValidationError("description", "required")
	}
	if utf8.RuneCountInString(text) > MaxDescriptionLength {
		return NewValidationError("description", "too long")
	}
	return nil
}

func (SetDescription) updateTermCommand() {}

// SetMedia records the logical name of an attached media file.
type SetMedia struct {
	Kind MediaKind
	Name string
}

func (c SetMedia) Attribute() string { return string(c.Kind) }

func (c SetMedia) Validate() error {
	if !c.Kind.IsValid() {
		return NewValidationError("media_kind", "unknown")
	}
	if c.Name == "" {
		return NewValidationError("media_name", "required")
	}
	return nil
}

func (SetMedia) updateTermCommand() {}
