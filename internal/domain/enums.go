package domain

// PartOfSpeech represents the grammatical category of a term.
type PartOfSpeech string

const (
	PartOfSpeechNoun      PartOfSpeech = "noun"
	PartOfSpeechVerb      PartOfSpeech = "verb"
	PartOfSpeechAdjective PartOfSpeech = "adjective"
)

// PartsOfSpeech lists every tag in display order.
var PartsOfSpeech = []PartOfSpeech{PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective}

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective:
		return true
	}
	return false
}

// RelationKind identifies one of the symmetric relations between terms.
type RelationKind string

const (
	RelationSynonym RelationKind = "synonym"
	RelationSimilar RelationKind = "similar"
)

func (k RelationKind) String() string { return string(k) }

func (k RelationKind) IsValid() bool {
	switch k {
	case RelationSynonym, RelationSimilar:
		return true
	}
	return false
}

// MediaKind identifies the type of file attached to a term.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "video"
)

// MediaKinds lists every media kind in display order.
var MediaKinds = []MediaKind{MediaImage, MediaAudio, MediaVideo}

func (k MediaKind) String() string { return string(k) }

func (k MediaKind) IsValid() bool {
	switch k {
	case MediaImage, MediaAudio, MediaVideo:
		return true
	}
	return false
}
