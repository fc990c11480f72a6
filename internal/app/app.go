// Package app wires configuration, storage and transports into a running
// bot.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/terminology-bot/internal/adapter/sessionstore"
	"github.com/heartmarshall/terminology-bot/internal/adapter/telegram"
	"github.com/heartmarshall/terminology-bot/internal/config"
	"github.com/heartmarshall/terminology-bot/internal/service/conversation"
	"github.com/heartmarshall/terminology-bot/internal/service/resolver"
	"github.com/heartmarshall/terminology-bot/internal/transport/rest"
)

// Run loads configuration and serves the bot until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting terminology bot",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("session_store", cfg.Session.Store),
		slog.Bool("http", cfg.Server.Enabled),
		slog.Bool("telegram", cfg.Telegram.Enabled),
	)

	store, err := OpenStore(ctx, cfg, logger, cfg.Database.AutoMigrate)
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := openSessions(cfg)
	if err != nil {
		return err
	}
	defer sessions.Close()

	relations := resolver.NewService(logger, store.Terms, store.Tx)
	machine := conversation.NewMachine(logger, store.Terms, relations, store.Media, sessions, cfg.Bot)

	var poller *telegram.Poller
	if cfg.Telegram.Enabled {
		bot, err := telegram.NewBot(cfg.Telegram)
		if err != nil {
			return err
		}
		logger.Info("telegram bot authorized", slog.String("username", bot.Self.UserName))
		poller = telegram.NewPoller(logger, bot, machine, cfg.Telegram)
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Server.Enabled {
		health := rest.NewHealthHandler(BuildVersion(), map[string]rest.Pinger{
			"database": store.Pool,
			"sessions": sessions,
		})
		handler := rest.NewRouter(logger, health, rest.NewChatHandler(logger, machine), cfg.Server.MaxUploadBytes)
		serveHTTP(gctx, g, logger, cfg.Server, handler)
	}

	if poller != nil {
		g.Go(func() error { return poller.Run(gctx) })
	}

	err = g.Wait()
	logger.Info("terminology bot stopped")
	return err
}

func openSessions(cfg *config.Config) (sessionstore.Store, error) {
	opts := []sessionstore.Option{sessionstore.WithTTL(cfg.Session.TTL)}
	if cfg.Session.Store == config.SessionStoreRedis {
		opts = append(opts, sessionstore.WithRedisClient(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})))
	}

	store, err := sessionstore.New(cfg.Session.Store, opts...)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	return store, nil
}

// serveHTTP runs the server in g and shuts it down gracefully once ctx is
// done.
func serveHTTP(ctx context.Context, g *errgroup.Group, logger *slog.Logger, cfg config.ServerConfig, handler http.Handler) {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})
}
