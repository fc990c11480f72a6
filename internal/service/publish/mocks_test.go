package publish

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/terminology-bot/internal/domain"
)

type termRepoMock struct {
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Term, error)
	GetRelatedFunc func(ctx context.Context, id uuid.UUID, kind domain.RelationKind) ([]domain.Term, error)
}

func (m *termRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *termRepoMock) GetRelated(ctx context.Context, id uuid.UUID, kind domain.RelationKind) ([]domain.Term, error) {
	if m.GetRelatedFunc == nil {
		return nil, nil
	}
	return m.GetRelatedFunc(ctx, id, kind)
}

type mediaFilesMock struct {
	files map[string][]byte
}

func (m *mediaFilesMock) Open(_ context.Context, name string) (io.ReadCloser, error) {
	data, ok := m.files[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type upload struct {
	Filename string
	Data     []byte
	Comment  string
}

type edit struct {
	Title   string
	Text    string
	Summary string
}

type wikiClientMock struct {
	mu        sync.Mutex
	UploadErr error
	EditErr   error
	uploads   []upload
	edits     []edit
}

func (m *wikiClientMock) Upload(_ context.Context, filename string, r io.Reader, comment string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, upload{Filename: filename, Data: data, Comment: comment})
	return m.UploadErr
}

func (m *wikiClientMock) Edit(_ context.Context, title, text, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits = append(m.edits, edit{Title: title, Text: text, Summary: summary})
	return m.EditErr
}
