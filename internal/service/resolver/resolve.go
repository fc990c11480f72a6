package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/terminology-bot/internal/domain"
)

// ResolveAndLink resolves each word to a term and links it to currentID
// under kind. Every word runs in its own transaction:
//
//   - no term with that name: a term is created and linked;
//   - exactly one: it is linked;
//   - several: they become candidates and nothing is linked for the word.
//
// The current term never relates to itself. It is dropped from the matches,
// and a word naming only the current term is reported as skipped.
func (s *Service) ResolveAndLink(ctx context.Context, currentID uuid.UUID, kind domain.RelationKind, words []string) (*Result, error) {
	if !kind.IsValid() {
		return nil, domain.NewValidationError("kind", "unknown")
	}

	words = normalizeWords(words)
	if len(words) == 0 {
		return nil, domain.NewValidationError("words", "required")
	}
	// Reject the whole batch before anything commits.
	for _, word := range words {
		if err := domain.ValidateTermName(word); err != nil {
			return nil, fmt.Errorf("word %q: %w", word, err)
		}
	}

	result := &Result{}
	seen := make(map[uuid.UUID]bool)

	for _, word := range words {
		err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			return s.resolveWord(txCtx, currentID, kind, word, result, seen)
		})
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", word, err)
		}
	}

	s.log.InfoContext(ctx, "relations resolved",
		slog.String("term_id", currentID.String()),
		slog.String("kind", string(kind)),
		slog.Int("linked", len(result.Linked)),
		slog.Int("skipped", len(result.Skipped)),
		slog.Int("candidates", len(result.Candidates)),
	)

	return result, nil
}

func (s *Service) resolveWord(
	ctx context.Context,
	currentID uuid.UUID,
	kind domain.RelationKind,
	word string,
	result *Result,
	seen map[uuid.UUID]bool,
) error {
	matches, err := s.terms.FindByName(ctx, word)
	if err != nil {
		return fmt.Errorf("find by name: %w", err)
	}

	if len(matches) == 0 {
		created, err := s.terms.Create(ctx, word)
		if err != nil {
			return fmt.Errorf("create term: %w", err)
		}
		if err := s.terms.Link(ctx, currentID, created.ID, kind); err != nil {
			return fmt.Errorf("link term: %w", err)
		}
		result.Linked = append(result.Linked, *created)
		return nil
	}

	others := make([]domain.Term, 0, len(matches))
	for _, m := range matches {
		if m.ID != currentID {
			others = append(others, m)
		}
	}

	switch len(others) {
	case 0:
		result.Skipped = append(result.Skipped, word)
	case 1:
		if err := s.terms.Link(ctx, currentID, others[0].ID, kind); err != nil {
			return fmt.Errorf("link term: %w", err)
		}
		result.Linked = append(result.Linked, others[0])
	default:
		for _, c := range others {
			if !seen[c.ID] {
				seen[c.ID] = true
				result.Candidates = append(result.Candidates, c)
			}
		}
	}

	return nil
}

// Clarify links the candidates picked by reply, a comma-separated list of
// 1-based indices into candidates. All picks are linked in one transaction.
// Invalid replies return a *domain.ValidationError and link nothing.
// The returned ids follow the order of the reply.
func (s *Service) Clarify(
	ctx context.Context,
	currentID uuid.UUID,
	kind domain.RelationKind,
	candidates []uuid.UUID,
	reply string,
) ([]uuid.UUID, error) {
	if !kind.IsValid() {
		return nil, domain.NewValidationError("kind", "unknown")
	}

	indices, err := ParseIndices(reply, len(candidates))
	if err != nil {
		return nil, err
	}

	chosen := make([]uuid.UUID, 0, len(indices))
	for _, i := range indices {
		if candidates[i-1] != currentID {
			chosen = append(chosen, candidates[i-1])
		}
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, id := range chosen {
			if err := s.terms.Link(txCtx, currentID, id, kind); err != nil {
				return fmt.Errorf("link term %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("clarify: %w", err)
	}

	s.log.InfoContext(ctx, "clarification applied",
		slog.String("term_id", currentID.String()),
		slog.String("kind", string(kind)),
		slog.Int("linked", len(chosen)),
	)

	return chosen, nil
}
