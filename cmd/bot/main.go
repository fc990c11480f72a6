// Command bot runs the terminology bot: the HTTP chat endpoint and, when
// enabled, the Telegram poller.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/terminology-bot/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		slog.Error("bot failed", slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}
}
