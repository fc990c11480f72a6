// Command termctl administers the glossary outside the chat: schema
// migrations, seeding, listing and wiki publishing.
//
// Usage:
//
//	termctl migrate
//	termctl seed [name...]
//	termctl list
//	termctl publish <term-id>
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/terminology-bot/internal/app"
	"github.com/heartmarshall/terminology-bot/internal/config"
)

// env is loaded once before any subcommand runs.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "termctl",
		Short:         "Administer the terminology glossary",
		Version:       app.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = app.NewLogger(cfg.Log)
			return nil
		},
	}

	root.AddCommand(
		newMigrateCmd(e),
		newSeedCmd(e),
		newListCmd(e),
		newPublishCmd(e),
	)
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("termctl failed", slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}
}
