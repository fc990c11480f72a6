package sessionstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/heartmarshall/terminology-bot/internal/domain"
	"github.com/heartmarshall/terminology-bot/internal/service/conversation"
)

// Memory keeps sessions in process memory. Stored values are copies, so
// callers never share state with the store.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*conversation.Session
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*conversation.Session)}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, senderID string) (*conversation.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[senderID]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

// Create implements Store.
func (m *Memory) Create(_ context.Context, s *conversation.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[s.SenderID]; ok {
		return fmt.Errorf("session %s: %w", s.SenderID, domain.ErrAlreadyExists)
	}

	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	s.Version = 1

	m.sessions[s.SenderID] = s.Clone()
	return nil
}

// Update implements Store.
func (m *Memory) Update(_ context.Context, s *conversation.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sessions[s.SenderID]
	if !ok {
		return fmt.Errorf("session %s: %w", s.SenderID, domain.ErrNotFound)
	}
	if stored.Version != s.Version {
		return fmt.Errorf("session %s version %d: %w", s.SenderID, s.Version, domain.ErrConflict)
	}

	s.Version++
	s.UpdatedAt = time.Now()

	m.sessions[s.SenderID] = s.Clone()
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, senderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, senderID)
	return nil
}

// Ping implements Store.
func (m *Memory) Ping(context.Context) error { return nil }

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = make(map[string]*conversation.Session)
	return nil
}
