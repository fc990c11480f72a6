package conversation

import "github.com/heartmarshall/terminology-bot/internal/domain"

// State is a dialogue state. Values are persisted with the session.
type State string

const (
	StateStartMenu     State = "START_MENU"
	StateNewTerm       State = "NEW_TERM"
	StateChooseTerm    State = "CHOOSE_TERM"
	StateChooseOption  State = "CHOOSE_OPTION"
	StatePOS           State = "POS"
	StateDescription   State = "DESCRIPTION"
	StateSynonyms      State = "SYNONYMS"
	StateSimilars      State = "SIMILARS"
	StateClarifyChoice State = "CLARIFY_CHOICE"
	StateImage         State = "IMAGE"
	StateAudio         State = "AUDIO"
	StateVideo         State = "VIDEO"

	// StateEnd is terminal and never persisted.
	StateEnd State = "END"
)

func (s State) String() string { return string(s) }

func (s State) IsValid() bool {
	switch s {
	case StateStartMenu, StateNewTerm, StateChooseTerm, StateChooseOption,
		StatePOS, StateDescription, StateSynonyms, StateSimilars,
		StateClarifyChoice, StateImage, StateAudio, StateVideo, StateEnd:
		return true
	}
	return false
}

// RequiresTerm reports whether the state operates on Session.CurrentTermID.
func (s State) RequiresTerm() bool {
	switch s {
	case StateChooseOption, StatePOS, StateDescription, StateSynonyms,
		StateSimilars, StateClarifyChoice, StateImage, StateAudio, StateVideo:
		return true
	}
	return false
}

// AcceptsFreeText reports whether the state stores typed text as data.
func (s State) AcceptsFreeText() bool {
	switch s {
	case StateNewTerm, StateDescription, StateSynonyms, StateSimilars, StateClarifyChoice:
		return true
	}
	return false
}

// relationKind maps SYNONYMS and SIMILARS to their relation.
func (s State) relationKind() (domain.RelationKind, bool) {
	switch s {
	case StateSynonyms:
		return domain.RelationSynonym, true
	case StateSimilars:
		return domain.RelationSimilar, true
	}
	return "", false
}

// mediaKind maps IMAGE, AUDIO and VIDEO to their media kind.
func (s State) mediaKind() (domain.MediaKind, bool) {
	switch s {
	case StateImage:
		return domain.MediaImage, true
	case StateAudio:
		return domain.MediaAudio, true
	case StateVideo:
		return domain.MediaVideo, true
	}
	return "", false
}
