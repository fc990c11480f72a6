// Package publish renders a term as a wiki page and uploads it together
// with its media files.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/terminology-bot/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type termRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error)
	GetRelated(ctx context.Context, id uuid.UUID, kind domain.RelationKind) ([]domain.Term, error)
}

type mediaFiles interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

type wikiClient interface {
	Upload(ctx context.Context, filename string, r io.Reader, comment string) error
	Edit(ctx context.Context, title, text, summary string) error
}

// Service publishes terms to the wiki.
type Service struct {
	terms termRepo
	media mediaFiles
	wiki  wikiClient
	log   *slog.Logger
}

// NewService creates a new publish service.
func NewService(log *slog.Logger, terms termRepo, media mediaFiles, wiki wikiClient) *Service {
	return &Service{
		terms: terms,
		media: media,
		wiki:  wiki,
		log:   log.With("service", "publish"),
	}
}

// mediaSections maps media kinds to wiki section titles, in page order.
var mediaSections = []struct {
	kind    domain.MediaKind
	section string
}{
	{domain.MediaImage, "Photo"},
	{domain.MediaAudio, "Audio"},
	{domain.MediaVideo, "Video"},
}

// Publish uploads the term's media and writes its page. Media whose file
// is missing is left out of the page.
func (s *Service) Publish(ctx context.Context, termID uuid.UUID) (*Page, error) {
	term, err := s.terms.GetByID(ctx, termID)
	if err != nil {
		return nil, fmt.Errorf("get term: %w", err)
	}

	synonyms, err := s.terms.GetRelated(ctx, termID, domain.RelationSynonym)
	if err != nil {
		return nil, fmt.Errorf("get synonyms: %w", err)
	}
	similars, err := s.terms.GetRelated(ctx, termID, domain.RelationSimilar)
	if err != nil {
		return nil, fmt.Errorf("get similar words: %w", err)
	}

	page := Page{
		Title:        term.Name,
		Synonyms:     names(synonyms),
		SimilarWords: names(similars),
	}
	if term.Description != nil {
		page.Description = *term.Description
	}
	if term.PartOfSpeech != nil {
		page.PartOfSpeech = term.PartOfSpeech.String()
	}

	for _, ms := range mediaSections {
		name := term.Media(ms.kind)
		if name == nil {
			continue
		}

		file, err := s.upload(ctx, term, ms.kind, *name)
		if errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "media file missing, skipped",
				slog.String("term_id", termID.String()),
				slog.String("name", *name),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		page.Media = append(page.Media, MediaFile{
			Section:     ms.section,
			FileName:    file,
			Description: fmt.Sprintf("%s %s", term.Name, ms.kind),
		})
	}

	if err := s.wiki.Edit(ctx, page.Title, page.Render(), "Publish term "+term.Name); err != nil {
		return nil, fmt.Errorf("edit page: %w", err)
	}

	s.log.InfoContext(ctx, "term published",
		slog.String("term_id", termID.String()),
		slog.String("title", page.Title),
		slog.Int("media", len(page.Media)),
	)

	return &page, nil
}

func (s *Service) upload(ctx context.Context, term *domain.Term, kind domain.MediaKind, name string) (string, error) {
	rc, err := s.media.Open(ctx, name)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	filename := WikiFileName(kind, term.ID, data)
	if err := s.wiki.Upload(ctx, filename, bytes.NewReader(data), term.Name); err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return filename, nil
}

// extensions maps sniffed content types to wiki file extensions.
var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"audio/mpeg":      ".mp3",
	"audio/wave":      ".wav",
	"application/ogg": ".ogg",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
}

var defaultExtensions = map[domain.MediaKind]string{
	domain.MediaImage: ".jpg",
	domain.MediaAudio: ".ogg",
	domain.MediaVideo: ".mp4",
}

// WikiFileName names an uploaded file after the term's logical media name.
// MediaWiki requires an extension, so one is picked from the content.
func WikiFileName(kind domain.MediaKind, termID uuid.UUID, data []byte) string {
	ext, ok := extensions[http.DetectContentType(data)]
	if !ok {
		ext = defaultExtensions[kind]
	}
	return domain.MediaName(kind, termID) + ext
}

func names(terms []domain.Term) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = t.Name
	}
	return out
}
