package conversation

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/terminology-bot/internal/domain"
)

// Session is the transient state of one conversation.
//
// Field validity by state:
//   - CurrentTermID: set on CHOOSE_TERM -> CHOOSE_OPTION, required in every
//     state where State.RequiresTerm is true.
//   - Listing: the last numbered term listing shown; CHOOSE_TERM resolves
//     indices against it.
//   - Pending: only in CLARIFY_CHOICE.
type Session struct {
	SenderID      string         `json:"sender_id"`
	Locale        string         `json:"locale"`
	State         State          `json:"state"`
	CurrentTermID *uuid.UUID     `json:"current_term_id,omitempty"`
	Listing       []ListedTerm   `json:"listing,omitempty"`
	Pending       *Clarification `json:"pending,omitempty"`

	// Version is the optimistic lock maintained by the session store.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListedTerm is one entry of a numbered listing snapshot.
type ListedTerm struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Clarification holds a suspended relation batch awaiting the user's pick.
type Clarification struct {
	Kind       domain.RelationKind `json:"kind"`
	Candidates []ListedTerm        `json:"candidates"`
}

// NewSession returns a session in START_MENU.
func NewSession(senderID, locale string) *Session {
	return &Session{
		SenderID: senderID,
		Locale:   locale,
		State:    StateStartMenu,
	}
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	if s.CurrentTermID != nil {
		id := *s.CurrentTermID
		c.CurrentTermID = &id
	}
	c.Listing = slices.Clone(s.Listing)
	if s.Pending != nil {
		p := *s.Pending
		p.Candidates = slices.Clone(s.Pending.Candidates)
		c.Pending = &p
	}
	return &c
}

// Reset returns to START_MENU keeping only identity and locale.
func (s *Session) Reset() {
	s.State = StateStartMenu
	s.CurrentTermID = nil
	s.Listing = nil
	s.Pending = nil
}

func snapshot(terms []domain.Term) []ListedTerm {
	out := make([]ListedTerm, len(terms))
	for i, t := range terms {
		out[i] = ListedTerm{ID: t.ID, Name: t.Name}
	}
	return out
}
