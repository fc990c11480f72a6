package rest

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/terminology-bot/internal/transport/middleware"
)

// NewRouter mounts the probes and the chat endpoint. Uploads are bounded by
// maxUploadBytes.
func NewRouter(log *slog.Logger, health *HealthHandler, chat *ChatHandler, maxUploadBytes int64) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	chatChain := middleware.Chain(
		middleware.Logger(log),
		middleware.BodyLimit(maxUploadBytes),
	)
	mux.Handle("POST /v1/conversations/{sender}/messages", chatChain(http.HandlerFunc(chat.PostMessage)))

	return middleware.Chain(
		middleware.Recovery(log),
		middleware.RequestID(),
	)(mux)
}
