// Package media stores term attachments on the local filesystem.
//
// Files live under <dir>/<kind>/ and are named by the SHA-1 hex digest of
// the logical name "<kind>_<term id>", so every term holds at most one file
// per kind and a new upload replaces the previous one.
package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/heartmarshall/terminology-bot/internal/domain"
)

// Store is a filesystem media store.
type Store struct {
	dir string
	log *slog.Logger
}

// New creates the kind subdirectories under dir and returns a Store.
func New(dir string, log *slog.Logger) (*Store, error) {
	for _, kind := range domain.MediaKinds {
		if err := os.MkdirAll(filepath.Join(dir, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("media: create %s dir: %w", kind, err)
		}
	}
	return &Store{dir: dir, log: log.With("adapter", "media")}, nil
}

// FileName returns the stored file name for a term attachment.
func FileName(kind domain.MediaKind, termID uuid.UUID) string {
	sum := sha1.Sum([]byte(domain.MediaName(kind, termID)))
	return hex.EncodeToString(sum[:])
}

// Save writes r as the kind attachment of termID and returns the logical
// name to record on the term. The file is replaced atomically.
func (s *Store) Save(ctx context.Context, kind domain.MediaKind, termID uuid.UUID, r io.Reader) (string, error) {
	if !kind.IsValid() {
		return "", domain.NewValidationError("media_kind", "unknown")
	}

	dir := filepath.Join(s.dir, string(kind))
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("media: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	n, err := io.Copy(tmp, readerWithContext(ctx, r))
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("media: write %s: %w", kind, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("media: close %s: %w", kind, err)
	}

	path := filepath.Join(dir, FileName(kind, termID))
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("media: store %s: %w", kind, err)
	}

	name := domain.MediaName(kind, termID)
	s.log.InfoContext(ctx, "media stored",
		slog.String("name", name),
		slog.String("path", path),
		slog.Int64("bytes", n),
	)
	return name, nil
}

// Path returns the file path for a logical media name.
func (s *Store) Path(name string) (string, error) {
	kind, termID, err := domain.ParseMediaName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, string(kind), FileName(kind, termID)), nil
}

// Open opens the file behind a logical media name.
// Returns domain.ErrNotFound if nothing is stored.
func (s *Store) Open(_ context.Context, name string) (io.ReadCloser, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("media %s: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("media: open %s: %w", name, err)
	}
	return f, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// readerWithContext stops a copy once ctx is done.
func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
