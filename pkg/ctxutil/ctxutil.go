package ctxutil

import (
	"context"
)

type ctxKey string

const (
	senderIDKey  ctxKey = "sender_id"
	requestIDKey ctxKey = "request_id"
)

// WithSenderID stores the chat sender identity in the context.
func WithSenderID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, senderIDKey, id)
}

// SenderIDFromCtx extracts the sender identity from the context.
// Returns "" and false if the value is missing, empty, or wrong type.
func SenderIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(senderIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
