package resolver

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/terminology-bot/internal/domain"
)

// termRepoMock is a moq-style mock of termRepo.
type termRepoMock struct {
	FindByNameFunc func(ctx context.Context, name string) ([]domain.Term, error)
	CreateFunc     func(ctx context.Context, name string) (*domain.Term, error)
	LinkFunc       func(ctx context.Context, a, b uuid.UUID, kind domain.RelationKind) error

	mu    sync.Mutex
	calls struct {
		FindByName []string
		Create     []string
		Link       []linkCall
	}
}

type linkCall struct {
	A, B uuid.UUID
	Kind domain.RelationKind
}

func (m *termRepoMock) FindByName(ctx context.Context, name string) ([]domain.Term, error) {
	if m.FindByNameFunc == nil {
		panic("termRepoMock.FindByNameFunc: method is nil but termRepo.FindByName was just called")
	}
	m.mu.Lock()
	m.calls.FindByName = append(m.calls.FindByName, name)
	m.mu.Unlock()
	return m.FindByNameFunc(ctx, name)
}

func (m *termRepoMock) Create(ctx context.Context, name string) (*domain.Term, error) {
	if m.CreateFunc == nil {
		panic("termRepoMock.CreateFunc: method is nil but termRepo.Create was just called")
	}
	m.mu.Lock()
	m.calls.Create = append(m.calls.Create, name)
	m.mu.Unlock()
	return m.CreateFunc(ctx, name)
}

func (m *termRepoMock) Link(ctx context.Context, a, b uuid.UUID, kind domain.RelationKind) error {
	if m.LinkFunc == nil {
		panic("termRepoMock.LinkFunc: method is nil but termRepo.Link was just called")
	}
	m.mu.Lock()
	m.calls.Link = append(m.calls.Link, linkCall{A: a, B: b, Kind: kind})
	m.mu.Unlock()
	return m.LinkFunc(ctx, a, b, kind)
}

func (m *termRepoMock) CreateCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls.Create...)
}

func (m *termRepoMock) LinkCalls() []linkCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]linkCall(nil), m.calls.Link...)
}

// txManagerMock is a moq-style mock of txManager.
type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(context.Context) error) error

	mu    sync.Mutex
	calls int
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	if m.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.RunInTxFunc(ctx, fn)
}

func (m *txManagerMock) RunInTxCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
