// Package conversation implements the dialogue state machine that drives
// glossary editing over a chat transport.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/terminology-bot/internal/config"
	"github.com/heartmarshall/terminology-bot/internal/domain"
	"github.com/heartmarshall/terminology-bot/internal/presenter"
	"github.com/heartmarshall/terminology-bot/internal/service/resolver"
	"github.com/heartmarshall/terminology-bot/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type termRepo interface {
	List(ctx context.Context) ([]domain.Term, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Term, error)
	CreateIfAbsent(ctx context.Context, name string) (*domain.Term, bool, error)
	Apply(ctx context.Context, id uuid.UUID, cmd domain.UpdateTermCommand) (*domain.Term, error)
	GetRelated(ctx context.Context, id uuid.UUID, kind domain.RelationKind) ([]domain.Term, error)
}

type relationResolver interface {
	ResolveAndLink(ctx context.Context, currentID uuid.UUID, kind domain.RelationKind, words []string) (*resolver.Result, error)
	Clarify(ctx context.Context, currentID uuid.UUID, kind domain.RelationKind, candidates []uuid.UUID, reply string) ([]uuid.UUID, error)
}

type mediaStore interface {
	Save(ctx context.Context, kind domain.MediaKind, termID uuid.UUID, r io.Reader) (string, error)
}

type sessionStore interface {
	Get(ctx context.Context, senderID string) (*Session, error)
	Create(ctx context.Context, s *Session) error
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, senderID string) error
}

// Machine dispatches inbound messages to state handlers. Messages from one
// sender are handled one at a time; different senders run concurrently.
type Machine struct {
	terms    termRepo
	resolver relationResolver
	media    mediaStore
	sessions sessionStore
	locks    *keyLock
	cfg      config.BotConfig
	log      *slog.Logger
}

// NewMachine creates a new conversation state machine.
func NewMachine(
	log *slog.Logger,
	terms termRepo,
	resolver relationResolver,
	media mediaStore,
	sessions sessionStore,
	cfg config.BotConfig,
) *Machine {
	return &Machine{
		terms:    terms,
		resolver: resolver,
		media:    media,
		sessions: sessions,
		locks:    newKeyLock(),
		cfg:      cfg,
		log:      log.With("service", "conversation"),
	}
}

// turn is the working set of one Handle call.
type turn struct {
	in   Inbound
	sess *Session // working copy, saved only when the turn succeeds
	loc  *presenter.Localizer
}

// inputError rejects a message in the current state. The session is left
// untouched and reply is sent as the re-prompt.
type inputError struct {
	reply Reply
}

func (e *inputError) Error() string { return "invalid input: " + e.reply.Text }

func (e *inputError) Unwrap() error { return domain.ErrValidation }

func reject(reply Reply) error {
	return &inputError{reply: reply}
}

// Handle runs one state transition for in and returns the reply to send.
//
// Invalid input and storage outages are answered in-band and return a nil
// error; the stored session is then unchanged. A non-nil error means an
// unexpected failure; the returned Reply still carries a message for the user.
func (m *Machine) Handle(ctx context.Context, in Inbound) (Reply, error) {
	if in.SenderID == "" {
		return Reply{}, domain.NewValidationError("sender_id", "required")
	}

	unlock := m.locks.Lock(in.SenderID)
	defer unlock()

	ctx = ctxutil.WithSenderID(ctx, in.SenderID)
	log := m.log.With(slog.String("sender_id", in.SenderID))

	stored, err := m.sessions.Get(ctx, in.SenderID)
	if err != nil {
		return m.failure(ctx, log, presenter.New(m.locale(in)), nil, fmt.Errorf("load session: %w", err))
	}

	isNew := stored == nil
	if isNew {
		stored = NewSession(in.SenderID, presenter.New(m.locale(in)).Locale())
		log.InfoContext(ctx, "session started", slog.String("locale", stored.Locale))
	}

	t := &turn{
		in:   in,
		sess: stored.Clone(),
		loc:  presenter.New(stored.Locale),
	}

	reply, err := m.dispatch(ctx, t)

	var inErr *inputError
	switch {
	case errors.As(err, &inErr):
		log.InfoContext(ctx, "input rejected",
			slog.String("state", stored.State.String()),
			slog.String("reason", inErr.reply.Text),
		)
		if isNew {
			// The session must exist even if the first message was rejected.
			t.sess = stored
			if err := m.save(ctx, t, true); err != nil {
				return m.failure(ctx, log, t.loc, stored, err)
			}
		}
		reply = inErr.reply
		reply.State = stored.State
		return reply, nil

	case errors.Is(err, domain.ErrNotFound):
		log.WarnContext(ctx, "term vanished", slog.String("error", err.Error()))
		t.sess = stored.Clone()
		t.sess.CurrentTermID = nil
		reply, err = m.enterChooseTerm(ctx, t, t.loc.T(presenter.MsgNotFound))
		if err != nil {
			return m.failure(ctx, log, t.loc, stored, err)
		}

	case err != nil:
		return m.failure(ctx, log, t.loc, stored, err)
	}

	if t.sess.State == StateEnd {
		if !isNew {
			if err := m.sessions.Delete(ctx, in.SenderID); err != nil {
				return m.failure(ctx, log, t.loc, stored, fmt.Errorf("delete session: %w", err))
			}
		}
		log.InfoContext(ctx, "session ended", slog.String("from", stored.State.String()))
		reply.State = StateEnd
		return reply, nil
	}

	if err := m.save(ctx, t, isNew); err != nil {
		return m.failure(ctx, log, t.loc, stored, err)
	}

	log.InfoContext(ctx, "message handled",
		slog.String("from", stored.State.String()),
		slog.String("to", t.sess.State.String()),
	)

	reply.State = t.sess.State
	return reply, nil
}

func (m *Machine) save(ctx context.Context, t *turn, isNew bool) error {
	if isNew {
		if err := m.sessions.Create(ctx, t.sess); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		return nil
	}
	if err := m.sessions.Update(ctx, t.sess); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// failure answers a failed turn. Storage outages and lost optimistic locks
// ask the user to retry; anything else is reported as an error.
func (m *Machine) failure(ctx context.Context, log *slog.Logger, loc *presenter.Localizer, stored *Session, err error) (Reply, error) {
	var state State
	if stored != nil {
		state = stored.State
	}

	if domain.IsRetryable(err) || errors.Is(err, domain.ErrConflict) {
		log.WarnContext(ctx, "turn aborted, retry requested",
			slog.String("state", state.String()),
			slog.String("error", err.Error()),
		)
		return Reply{Text: loc.T(presenter.MsgRetry), State: state}, nil
	}

	log.ErrorContext(ctx, "turn failed",
		slog.String("state", state.String()),
		slog.String("error", err.Error()),
	)
	return Reply{Text: loc.T(presenter.MsgFailure), State: state}, err
}

func (m *Machine) locale(in Inbound) string {
	if in.Locale != "" {
		return in.Locale
	}
	return m.cfg.DefaultLocale
}
