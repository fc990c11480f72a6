package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/terminology-bot/internal/adapter/media"
	"github.com/heartmarshall/terminology-bot/internal/adapter/postgres"
	"github.com/heartmarshall/terminology-bot/internal/adapter/postgres/term"
	"github.com/heartmarshall/terminology-bot/internal/adapter/wiki"
	"github.com/heartmarshall/terminology-bot/internal/config"
	"github.com/heartmarshall/terminology-bot/internal/service/publish"
	"github.com/heartmarshall/terminology-bot/migrations"
)

// Store bundles the term storage shared by the bot and the admin CLI.
type Store struct {
	Pool  *pgxpool.Pool
	Tx    *postgres.TxManager
	Terms *term.Repo
	Media *media.Store
}

// OpenStore connects to PostgreSQL and opens the media directory. Pending
// migrations are applied when migrate is true.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) (*Store, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if migrate {
		if err := postgres.Migrate(ctx, pool, migrations.FS, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	files, err := media.New(cfg.Media.Dir, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("open media dir: %w", err)
	}

	return &Store{
		Pool:  pool,
		Tx:    postgres.NewTxManager(pool),
		Terms: term.New(pool),
		Media: files,
	}, nil
}

// Close releases the database pool.
func (s *Store) Close() {
	s.Pool.Close()
}

// NewPublisher wires the wiki publisher over s.
func (s *Store) NewPublisher(cfg config.WikiConfig, logger *slog.Logger) (*publish.Service, error) {
	client, err := wiki.NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("wiki client: %w", err)
	}
	return publish.NewService(logger, s.Terms, s.Media, client), nil
}
