package conversation

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/terminology-bot/internal/domain"
)

// ---------------------------------------------------------------------------
// memTerms: in-memory Term Store
// ---------------------------------------------------------------------------

type relKey struct {
	a, b uuid.UUID
	kind domain.RelationKind
}

type memTerms struct {
	mu      sync.Mutex
	terms   []domain.Term // creation order
	rel     map[relKey]bool
	fail    error
	applied []domain.UpdateTermCommand
}

func newMemTerms() *memTerms {
	return &memTerms{rel: make(map[relKey]bool)}
}

func (s *memTerms) setFail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *memTerms) seed(name string) domain.Term {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(name)
}

func (s *memTerms) insert(name string) domain.Term {
	now := time.Now()
	t := domain.Term{ID: uuid.New(), Name: domain.NormalizeText(name), CreatedAt: now, UpdatedAt: now}
	s.terms = append(s.terms, t)
	return t
}

func (s *memTerms) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms = slices.DeleteFunc(s.terms, func(t domain.Term) bool { return t.ID == id })
}

func (s *memTerms) find(id uuid.UUID) int {
	return slices.IndexFunc(s.terms, func(t domain.Term) bool { return t.ID == id })
}

func (s *memTerms) get(id uuid.UUID) domain.Term {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terms[s.find(id)]
}

func (s *memTerms) byName(name string) []domain.Term {
	var out []domain.Term
	for _, t := range s.terms {
		if t.Name == name {
			out = append(out, t)
		}
	}
	return out
}

func sortByName(terms []domain.Term) []domain.Term {
	out := slices.Clone(terms)
	slices.SortStableFunc(out, func(a, b domain.Term) int { return strings.Compare(a.Name, b.Name) })
	return out
}

func (s *memTerms) List(context.Context) ([]domain.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	return sortByName(s.terms), nil
}

func (s *memTerms) GetByID(_ context.Context, id uuid.UUID) (*domain.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	i := s.find(id)
	if i < 0 {
		return nil, fmt.Errorf("term %s: %w", id, domain.ErrNotFound)
	}
	t := s.terms[i]
	return &t, nil
}

func (s *memTerms) FindByName(_ context.Context, name string) ([]domain.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	return s.byName(domain.NormalizeText(name)), nil
}

func (s *memTerms) Create(_ context.Context, name string) (*domain.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	t := s.insert(name)
	return &t, nil
}

func (s *memTerms) CreateIfAbsent(_ context.Context, name string) (*domain.Term, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, false, s.fail
	}
	if existing := s.byName(domain.NormalizeText(name)); len(existing) > 0 {
		return &existing[0], false, nil
	}
	t := s.insert(name)
	return &t, true, nil
}

func (s *memTerms) Apply(_ context.Context, id uuid.UUID, cmd domain.UpdateTermCommand) (*domain.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	i := s.find(id)
	if i < 0 {
		return nil, fmt.Errorf("term %s: %w", id, domain.ErrNotFound)
	}

	t := &s.terms[i]
	switch c := cmd.(type) {
	case domain.SetPartOfSpeech:
		v := c.Value
		t.PartOfSpeech = &v
	case domain.SetDescription:
		v := c.Value
		t.Description = &v
	case domain.SetMedia:
		v := c.Name
		switch c.Kind {
		case domain.MediaImage:
			t.Image = &v
		case domain.MediaAudio:
			t.Audio = &v
		case domain.MediaVideo:
			t.Video = &v
		}
	}
	s.applied = append(s.applied, cmd)

	out := *t
	return &out, nil
}

func (s *memTerms) Link(_ context.Context, a, b uuid.UUID, kind domain.RelationKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	if a == b {
		return domain.ErrValidation
	}
	if s.find(a) < 0 || s.find(b) < 0 {
		return domain.ErrNotFound
	}
	s.rel[relKey{a, b, kind}] = true
	s.rel[relKey{b, a, kind}] = true
	return nil
}

func (s *memTerms) GetRelated(_ context.Context, id uuid.UUID, kind domain.RelationKind) ([]domain.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return nil, s.fail
	}
	var out []domain.Term
	for _, t := range s.terms {
		if s.rel[relKey{id, t.ID, kind}] {
			out = append(out, t)
		}
	}
	return sortByName(out), nil
}

func (s *memTerms) related(id uuid.UUID, kind domain.RelationKind) []uuid.UUID {
	terms, _ := s.GetRelated(context.Background(), id, kind)
	ids := make([]uuid.UUID, len(terms))
	for i, t := range terms {
		ids[i] = t.ID
	}
	return ids
}

func (s *memTerms) applyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.applied)
}

// ---------------------------------------------------------------------------
// memTx, memMedia, memSessions
// ---------------------------------------------------------------------------

type memTx struct{}

func (memTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type memMedia struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (s *memMedia) Save(_ context.Context, kind domain.MediaKind, termID uuid.UUID, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	name := domain.MediaName(kind, termID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	s.files[name] = data
	return name, nil
}

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	failGet  error
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]*Session)}
}

func (s *memSessions) Get(_ context.Context, senderID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet != nil {
		return nil, s.failGet
	}
	sess, ok := s.sessions[senderID]
	if !ok {
		return nil, nil
	}
	return sess.Clone(), nil
}

func (s *memSessions) Create(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.SenderID]; ok {
		return domain.ErrAlreadyExists
	}
	sess.Version = 1
	s.sessions[sess.SenderID] = sess.Clone()
	return nil
}

func (s *memSessions) Update(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[sess.SenderID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != sess.Version {
		return domain.ErrConflict
	}
	sess.Version++
	s.sessions[sess.SenderID] = sess.Clone()
	return nil
}

func (s *memSessions) Delete(_ context.Context, senderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, senderID)
	return nil
}

func (s *memSessions) stored(senderID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[senderID]
	if !ok {
		return nil
	}
	return sess.Clone()
}
