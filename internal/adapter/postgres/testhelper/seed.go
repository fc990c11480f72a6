package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/terminology-bot/internal/domain"
)

// UniqueName returns a normalized term name that no other test uses.
func UniqueName(prefix string) string {
	return domain.NormalizeText(prefix + "-" + uuid.New().String()[:8])
}

// SeedTerm inserts a bare term with the given (already normalized) name.
// Several calls with one name produce same-named duplicates.
func SeedTerm(t *testing.T, pool *pgxpool.Pool, name string) domain.Term {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	term := domain.Term{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO terms (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		term.ID, term.Name, term.CreatedAt, term.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTerm insert: %v", err)
	}

	return term
}

// SeedRelation inserts both directions of a relation between a and b.
func SeedRelation(t *testing.T, pool *pgxpool.Pool, a, b uuid.UUID, kind domain.RelationKind) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO term_relations (term_id, related_id, kind) VALUES ($1, $2, $3), ($2, $1, $3)`,
		a, b, string(kind),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRelation insert: %v", err)
	}
}
