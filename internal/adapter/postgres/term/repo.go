// Package term implements the Term Store using PostgreSQL.
// Terms live in the terms table; synonym and similar-word relations live in
// term_relations as two directed rows per pair, always written together.
package term

import (
	"bytes"
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/terminology-bot/internal/adapter/postgres"
	"github.com/heartmarshall/terminology-bot/internal/domain"
)

// Repo provides term persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new term repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var termColumns = []string{
	"t.id", "t.name", "t.part_of_speech", "t.description",
	"t.image", "t.audio", "t.video", "t.created_at", "t.updated_at",
}

const returningColumns = `id, name, part_of_speech, description, image, audio, video, created_at, updated_at`

// ---------------------------------------------------------------------------
// Raw SQL for write queries
// ---------------------------------------------------------------------------

const createSQL = `
INSERT INTO terms (name)
VALUES ($1)
RETURNING ` + returningColumns

// The first term with the name wins when duplicates already exist.
const createIfAbsentSQL = `
WITH existing AS (
    SELECT ` + returningColumns + `
    FROM terms
    WHERE name = $1
    ORDER BY created_at, id
    LIMIT 1
), inserted AS (
    INSERT INTO terms (name)
    SELECT $1
    WHERE NOT EXISTS (SELECT 1 FROM existing)
    RETURNING ` + returningColumns + `
)
SELECT ` + returningColumns + `, true FROM inserted
UNION ALL
SELECT ` + returningColumns + `, false FROM existing`

const linkSQL = `
INSERT INTO term_relations (term_id, related_id, kind)
VALUES ($1, $2, $3), ($2, $1, $3)
ON CONFLICT DO NOTHING`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// List returns every term ordered by name, then creation time.
// Returns an empty slice (not nil) when the glossary is empty.
func (r *Repo) List(ctx context.Context) ([]domain.Term, error) {
	query := postgres.Builder.
		Select(termColumns...).
		From("terms t").
		OrderBy("t.name", "t.created_at", "t.id")

	return r.query(ctx, query, "list terms")
}

// GetByID returns a term by primary key.
// Returns domain.ErrNotFound if the term does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error) {
	sql, args, err := postgres.Builder.
		Select(termColumns...).
		From("terms t").
		Where(sq.Eq{"t.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get term: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	t, err := scanTerm(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "term", id)
	}
	return &t, nil
}

// FindByName returns every term whose normalized name equals name, oldest first.
func (r *Repo) FindByName(ctx context.Context, name string) ([]domain.Term, error) {
	query := postgres.Builder.
		Select(termColumns...).
		From("terms t").
		Where(sq.Eq{"t.name": domain.NormalizeText(name)}).
		OrderBy("t.created_at", "t.id")

	return r.query(ctx, query, "find terms by name")
}

// GetRelated returns the terms linked to id under kind, ordered by name.
func (r *Repo) GetRelated(ctx context.Context, id uuid.UUID, kind domain.RelationKind) ([]domain.Term, error) {
	query := postgres.Builder.
		Select(termColumns...).
		From("term_relations r").
		Join("terms t ON t.id = r.related_id").
		Where(sq.Eq{"r.term_id": id, "r.kind": string(kind)}).
		OrderBy("t.name", "t.created_at", "t.id")

	return r.query(ctx, query, "get related terms")
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create always inserts a new term, even if one with the same name exists.
func (r *Repo) Create(ctx context.Context, name string) (*domain.Term, error) {
	name = domain.NormalizeText(name)
	if err := domain.ValidateTermName(name); err != nil {
		return nil, err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	t, err := scanTerm(q.QueryRow(ctx, createSQL, name))
	if err != nil {
		return nil, postgres.MapError(err, "term", name)
	}
	return &t, nil
}

// CreateIfAbsent returns the oldest term with the given name, inserting one
// when none exists. created reports whether a row was inserted.
func (r *Repo) CreateIfAbsent(ctx context.Context, name string) (*domain.Term, bool, error) {
	name = domain.NormalizeText(name)
	if err := domain.ValidateTermName(name); err != nil {
		return nil, false, err
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	var created bool
	t, err := scanTerm(q.QueryRow(ctx, createIfAbsentSQL, name), &created)
	if err != nil {
		return nil, false, postgres.MapError(err, "term", name)
	}
	return &t, created, nil
}

// SetPartOfSpeech overwrites the part-of-speech tag.
func (r *Repo) SetPartOfSpeech(ctx context.Context, id uuid.UUID, pos domain.PartOfSpeech) (*domain.Term, error) {
	return r.set(ctx, id, "part_of_speech", string(pos))
}

// SetDescription overwrites the description.
func (r *Repo) SetDescription(ctx context.Context, id uuid.UUID, description string) (*domain.Term, error) {
	return r.set(ctx, id, "description", description)
}

// SetMedia overwrites the logical media name for one media kind.
func (r *Repo) SetMedia(ctx context.Context, id uuid.UUID, kind domain.MediaKind, name string) (*domain.Term, error) {
	if !kind.IsValid() {
		return nil, domain.NewValidationError("media_kind", "unknown")
	}
	// Column names equal the media kind values.
	return r.set(ctx, id, string(kind), name)
}

// Apply validates cmd and runs the single setter it names.
func (r *Repo) Apply(ctx context.Context, id uuid.UUID, cmd domain.UpdateTermCommand) (*domain.Term, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	switch c := cmd.(type) {
	case domain.SetPartOfSpeech:
		return r.SetPartOfSpeech(ctx, id, c.Value)
	case domain.SetDescription:
		return r.SetDescription(ctx, id, c.Value)
	case domain.SetMedia:
		return r.SetMedia(ctx, id, c.Kind, c.Name)
	default:
		return nil, fmt.Errorf("apply %T: %w", cmd, domain.ErrValidation)
	}
}

// Link relates a and b under kind in both directions.
// Idempotent: linking an existing pair is NOT an error (ON CONFLICT DO NOTHING).
// Linking a term to itself violates a CHECK constraint (domain.ErrValidation).
// The pair is ordered first so concurrent Link(a, b) and Link(b, a) take row
// locks in the same order and cannot deadlock.
func (r *Repo) Link(ctx context.Context, a, b uuid.UUID, kind domain.RelationKind) error {
	if !kind.IsValid() {
		return domain.NewValidationError("kind", "unknown")
	}
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := q.Exec(ctx, linkSQL, a, b, string(kind)); err != nil {
		return postgres.MapError(err, "term_relation", a)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) set(ctx context.Context, id uuid.UUID, column string, value any) (*domain.Term, error) {
	sql, args, err := postgres.Builder.
		Update("terms").
		Set(column, value).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + returningColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update term %s: %w", column, err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	t, err := scanTerm(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "term", id)
	}
	return &t, nil
}

func (r *Repo) query(ctx context.Context, query sq.SelectBuilder, op string) ([]domain.Term, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, op, "")
	}
	defer rows.Close()

	result := []domain.Term{}
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, postgres.MapError(err, op, "")
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, op, "")
	}

	return result, nil
}

// scanTerm scans the standard term column list, followed by any extra destinations.
func scanTerm(row pgx.Row, extra ...any) (domain.Term, error) {
	var (
		t           domain.Term
		pos         pgtype.Text
		description pgtype.Text
		image       pgtype.Text
		audio       pgtype.Text
		video       pgtype.Text
	)

	dest := []any{&t.ID, &t.Name, &pos, &description, &image, &audio, &video, &t.CreatedAt, &t.UpdatedAt}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return domain.Term{}, err
	}

	if pos.Valid {
		p := domain.PartOfSpeech(pos.String)
		t.PartOfSpeech = &p
	}
	t.Description = textPtr(description)
	t.Image = textPtr(image)
	t.Audio = textPtr(audio)
	t.Video = textPtr(video)

	return t, nil
}

func textPtr(v pgtype.Text) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
