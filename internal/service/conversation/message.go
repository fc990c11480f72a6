package conversation

import (
	"bytes"
	"context"
	"io"

	"github.com/heartmarshall/terminology-bot/internal/domain"
)

// Inbound is one user message as delivered by a transport.
type Inbound struct {
	SenderID string
	// Locale is the sender's BCP 47 language tag, used when a session starts.
	Locale string
	Text   string
	Media  *Media
}

// Media is an attachment. The content is fetched lazily so transports can
// stream it from their own storage.
type Media struct {
	Kind     domain.MediaKind
	FileName string
	Source   MediaSource
}

// MediaSource opens attachment content.
type MediaSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// BytesSource is an in-memory MediaSource.
type BytesSource []byte

func (b BytesSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

// Reply is the outbound message for one handled Inbound.
type Reply struct {
	Text string
	// Choices are ordered groups of labelled options. Nil leaves the
	// transport's current choice set untouched unless RemoveChoices is set.
	Choices       [][]string
	RemoveChoices bool
	// State is the dialogue state after the message.
	State State
}
