// Package resolver links user-typed words to the current term as synonyms
// or similar words, deferring same-named matches to a clarification step.
package resolver

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/terminology-bot/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type termRepo interface {
	FindByName(ctx context.Context, name string) ([]domain.Term, error)
	Create(ctx context.Context, name string) (*domain.Term, error)
	Link(ctx context.Context, a, b uuid.UUID, kind domain.RelationKind) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service resolves words to terms and links them.
type Service struct {
	terms termRepo
	tx    txManager
	log   *slog.Logger
}

// NewService creates a new resolver service.
func NewService(log *slog.Logger, terms termRepo, tx txManager) *Service {
	return &Service{
		terms: terms,
		tx:    tx,
		log:   log.With("service", "resolver"),
	}
}

// Result is the outcome of one ResolveAndLink batch.
type Result struct {
	// Linked holds the terms linked in this batch, newly created ones included.
	Linked []domain.Term
	// Skipped holds words that named only the current term.
	Skipped []string
	// Candidates accumulates same-named matches across every ambiguous word.
	// Nothing was linked for them; a non-empty list requires clarification.
	Candidates []domain.Term
}

// Ambiguous reports whether the batch needs a clarification step.
func (r *Result) Ambiguous() bool {
	return len(r.Candidates) > 0
}
