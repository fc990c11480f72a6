package resolver

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/terminology-bot/internal/domain"
)

// defaultTxMock returns a txManagerMock that simply calls the function with the same context.
func defaultTxMock() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	}
}

// byName returns a FindByNameFunc backed by a fixed name index.
func byName(index map[string][]domain.Term) func(context.Context, string) ([]domain.Term, error) {
	return func(_ context.Context, name string) ([]domain.Term, error) {
		return index[name], nil
	}
}

func okLink(context.Context, uuid.UUID, uuid.UUID, domain.RelationKind) error { return nil }

func newTerm(name string) domain.Term {
	return domain.Term{ID: uuid.New(), Name: name}
}

// ---------------------------------------------------------------------------
// ResolveAndLink
// ---------------------------------------------------------------------------

func TestResolveAndLink_UnknownWordCreatesAndLinks(t *testing.T) {
	t.Parallel()

	current := newTerm("beacon")
	created := newTerm("lighthouse")

	repo := &termRepoMock{
		FindByNameFunc: byName(nil),
		CreateFunc: func(_ context.Context, name string) (*domain.Term, error) {
			if name != "lighthouse" {
				t.Errorf("Create name: got %q, want %q", name, "lighthouse")
			}
			return &created, nil
		},
		LinkFunc: okLink,
	}
	svc := NewService(slog.Default(), repo, defaultTxMock())

	result, err := svc.ResolveAndLink(context.Background(), current.ID, domain.RelationSynonym, []string{"  LightHouse "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Ambiguous() {
		t.Fatalf("unexpected candidates: %v", result.Candidates)
	}
	if len(result.Linked) != 1 || result.Linked[0].ID != created.ID {
		t.Errorf("Linked: got %v, want [%s]", result.Linked, created.ID)
	}
	links := repo.LinkCalls()
	if len(links) != 1 || links[0] != (linkCall{A: current.ID, B: created.ID, Kind: domain.RelationSynonym}) {
		t.Errorf("Link calls: got %+v", links)
	}
}

func TestResolveAndLink_SingleMatchLinksWithoutClarification(t *testing.T) {
	t.Parallel()

	current := newTerm("beacon")
	light := newTerm("light")

	repo := &termRepoMock{
		FindByNameFunc: byName(map[string][]domain.Term{"light": {light}}),
		LinkFunc:       okLink,
	}
	svc := NewService(slog.Default(), repo, defaultTxMock())

	result, err := svc.ResolveAndLink(context.Background(), current.ID, domain.RelationSimilar, []string{"light"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Ambiguous() {
		t.Errorf("single match must not need clarification")
	}
	if len(repo.CreateCalls()) != 0 {
		t.Errorf("Create should not be called for an existing word")
	}
	if len(repo.LinkCalls()) != 1 {
		t.Errorf("Link calls: got %d, want 1", len(repo.LinkCalls()))
	}
}

func TestResolveAndLink_DuplicatesBecomeCandidates(t *testing.T) {
	t.Parallel()

	current := newTerm("beacon")
	light1, light2 := newTerm("light"), newTerm("light")
	lamp := newTerm("lamp")

	repo := &termRepoMock{
		FindByNameFunc: byName(map[string][]domain.Term{
			"light": {light1, light2},
			"lamp":  {lamp},
		}),
		LinkFunc: okLink,
	}
	svc := NewService(slog.Default(), repo, defaultTxMock())

	result, err := svc.ResolveAndLink(context.Background(), current.ID, domain.RelationSynonym, []string{"light", "lamp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Candidates) != 2 || result.Candidates[0].ID != light1.ID || result.Candidates[1].ID != light2.ID {
		t.Errorf("Candidates: got %v", result.Candidates)
	}
	// The unambiguous word of the batch is linked immediately.
	links := repo.LinkCalls()
	if len(links) != 1 || links[0].B != lamp.ID {
		t.Errorf("Link calls: got %+v, want only lamp", links)
	}
}

func TestResolveAndLink_CandidatesAccumulateAcrossWords(t *testing.T) {
	t.Parallel()

	current := newTerm("beacon")
	a1, a2 := newTerm("flare"), newTerm("flare")
	b1, b2, b3 := newTerm("signal"), newTerm("signal"), newTerm("signal")

	repo := &termRepoMock{
		FindByNameFunc: byName(map[string][]domain.Term{
			"flare":  {a1, a2},
			"signal": {b1, b2, b3},
		}),
		LinkFunc: okLink,
	}
	svc := NewService(slog.Default(), repo, defaultTxMock())

	result, err := svc.ResolveAndLink(context.Background(), current.ID, domain.RelationSynonym, []string{"flare", "signal", "flare"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Candidates) != 5 {
		t.Errorf("Candidates: got %d, want 5", len(result.Candidates))
	}
	if len(repo.LinkCalls()) != 0 {
		t.Errorf("no link may be committed for ambiguous words")
	}
}

func TestResolveAndLink_SelfIsSkipped(t *testing.T) {
	t.Parallel()

	current := newTerm("beacon")
	repo := &termRepoMock{
		FindByNameFunc: byName(map[string][]domain.Term{"beacon": {current}}),
	}
	svc := NewService(slog.Default(), repo, defaultTxMock())

	result, err := svc.ResolveAndLink(context.Background(), current.ID, domain.RelationSynonym, []string{"beacon"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Skipped) != 1 || result.Skipped[0] != "beacon" {
		t.Errorf("Skipped: got %v", result.Skipped)
	}
	if len(result.Linked) != 0 || result.Ambiguous() {
		t.Errorf("expected nothing linked, got %+v", result)
	}
}

func TestResolveAndLink_SelfRemovedFromCandidates(t *testing.T) {
	t.Parallel()

	current := newTerm("light")
	other := newTerm("light")

	repo := &termRepoMock{
		FindByNameFunc: byName(map[string][]domain.Term{"light": {current, other}}),
		LinkFunc:       okLink,
	}
	svc := NewService(slog.Default(), repo, defaultTxMock())

	result, err := svc.ResolveAndLink(context.Background(), current.ID, domain.RelationSimilar, []string{"light"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Ambiguous() {
		t.Errorf("one remaining candidate must be linked directly")
	}
	if len(result.Linked) != 1 || result.Linked[0].ID != other.ID {
		t.Errorf("Linked: got %v, want [%s]", result.Linked, other.ID)
	}
}

func TestResolveAndLink_EachWordOwnTransaction(t *testing.T) {
	t.Parallel()

	repo := &termRepoMock{
		FindByNameFunc: byName(nil),
		CreateFunc: func(_ context.Context, name string) (*domain.Term, error) {
			tm := newTerm(name)
			return &tm, nil
		},
		LinkFunc: okLink,
	}
	tx := defaultTxMock()
	svc := NewService(slog.Default(), repo, tx)

	_, err := svc.ResolveAndLink(context.Background(), uuid.New(), domain.RelationSynonym, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.RunInTxCalls() != 3 {
		t.Errorf("RunInTx calls: got %d, want 3", tx.RunInTxCalls())
	}
}

func TestResolveAndLink_EmptyWords(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(), &termRepoMock{}, defaultTxMock())

	_, err := svc.ResolveAndLink(context.Background(), uuid.New(), domain.RelationSynonym, []string{" ", ""})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestResolveAndLink_OverlongWordRejectsBatch(t *testing.T) {
	t.Parallel()

	tx := defaultTxMock()
	svc := NewService(slog.Default(), &termRepoMock{}, tx)

	words := []string{"light", strings.Repeat("x", domain.MaxTermNameLength+1)}
	_, err := svc.ResolveAndLink(context.Background(), uuid.New(), domain.RelationSimilar, words)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if tx.RunInTxCalls() != 0 {
		t.Errorf("RunInTx calls: got %d, want 0", tx.RunInTxCalls())
	}
}

func TestResolveAndLink_StorageError(t *testing.T) {
	t.Parallel()

	repo := &termRepoMock{
		FindByNameFunc: func(context.Context, string) ([]domain.Term, error) {
			return nil, domain.ErrStorageUnavailable
		},
	}
	svc := NewService(slog.Default(), repo, defaultTxMock())

	_, err := svc.ResolveAndLink(context.Background(), uuid.New(), domain.RelationSynonym, []string{"light"})
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Clarify
// ---------------------------------------------------------------------------

func TestClarify_LinksChosenCandidates(t *testing.T) {
	t.Parallel()

	current := uuid.New()
	candidates := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	repo := &termRepoMock{LinkFunc: okLink}
	tx := defaultTxMock()
	svc := NewService(slog.Default(), repo, tx)

	chosen, err := svc.Clarify(context.Background(), current, domain.RelationSynonym, candidates, "3, 1, 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chosen) != 2 || chosen[0] != candidates[2] || chosen[1] != candidates[0] {
		t.Errorf("chosen: got %v", chosen)
	}
	if len(repo.LinkCalls()) != 2 {
		t.Errorf("Link calls: got %d, want 2", len(repo.LinkCalls()))
	}
	if tx.RunInTxCalls() != 1 {
		t.Errorf("clarification must be one transaction, got %d", tx.RunInTxCalls())
	}
}

func TestClarify_InvalidReplyLinksNothing(t *testing.T) {
	t.Parallel()

	candidates := []uuid.UUID{uuid.New(), uuid.New()}

	for _, reply := range []string{"3", "0", "1, x", "", " , "} {
		repo := &termRepoMock{}
		svc := NewService(slog.Default(), repo, defaultTxMock())

		_, err := svc.Clarify(context.Background(), uuid.New(), domain.RelationSynonym, candidates, reply)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("reply %q: expected *ValidationError, got %v", reply, err)
		}
		if len(repo.LinkCalls()) != 0 {
			t.Errorf("reply %q: no link expected", reply)
		}
	}
}

func TestClarify_RollsBackOnLinkFailure(t *testing.T) {
	t.Parallel()

	candidates := []uuid.UUID{uuid.New(), uuid.New()}
	calls := 0
	repo := &termRepoMock{
		LinkFunc: func(context.Context, uuid.UUID, uuid.UUID, domain.RelationKind) error {
			calls++
			if calls == 2 {
				return domain.ErrStorageUnavailable
			}
			return nil
		},
	}
	svc := NewService(slog.Default(), repo, defaultTxMock())

	_, err := svc.Clarify(context.Background(), uuid.New(), domain.RelationSimilar, candidates, "1,2")
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}
