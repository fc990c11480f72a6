package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/terminology-bot/internal/domain"
	"github.com/heartmarshall/terminology-bot/internal/service/conversation"
)

type conversationHandler interface {
	Handle(ctx context.Context, in conversation.Inbound) (conversation.Reply, error)
}

// ChatHandler exposes the conversation machine over HTTP for clients that
// are not Telegram.
type ChatHandler struct {
	machine conversationHandler
	log     *slog.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(log *slog.Logger, machine conversationHandler) *ChatHandler {
	return &ChatHandler{machine: machine, log: log.With("handler", "chat")}
}

// MessageRequest is one user message. Media data is base64 in JSON.
type MessageRequest struct {
	Text   string        `json:"text"`
	Locale string        `json:"locale,omitempty"`
	Media  *MediaPayload `json:"media,omitempty"`
}

// MediaPayload is an inline attachment.
type MediaPayload struct {
	Kind     string `json:"kind"`
	FileName string `json:"file_name,omitempty"`
	Data     []byte `json:"data"`
}

// MessageResponse is the bot's answer to one message.
type MessageResponse struct {
	Text          string     `json:"text"`
	Choices       [][]string `json:"choices,omitempty"`
	RemoveChoices bool       `json:"remove_choices,omitempty"`
	State         string     `json:"state"`
	Error         string     `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// PostMessage handles POST /v1/conversations/{sender}/messages.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	sender := r.PathValue("sender")

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	in := conversation.Inbound{
		SenderID: sender,
		Locale:   req.Locale,
		Text:     req.Text,
	}
	if req.Media != nil {
		kind := domain.MediaKind(req.Media.Kind)
		if !kind.IsValid() || len(req.Media.Data) == 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "media: kind must be image, audio or video and data is required"})
			return
		}
		in.Media = &conversation.Media{
			Kind:     kind,
			FileName: req.Media.FileName,
			Source:   conversation.BytesSource(req.Media.Data),
		}
	}

	reply, err := h.machine.Handle(r.Context(), in)
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	case err != nil:
		h.log.ErrorContext(r.Context(), "handle message",
			slog.String("sender_id", sender),
			slog.String("error", err.Error()),
		)
		resp := toResponse(reply)
		resp.Error = "internal error"
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(reply))
}

func toResponse(reply conversation.Reply) MessageResponse {
	return MessageResponse{
		Text:          reply.Text,
		Choices:       reply.Choices,
		RemoveChoices: reply.RemoveChoices,
		State:         reply.State.String(),
	}
}
