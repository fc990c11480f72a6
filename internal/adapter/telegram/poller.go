// Package telegram connects the conversation machine to the Telegram Bot
// API through long polling.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/terminology-bot/internal/config"
	"github.com/heartmarshall/terminology-bot/internal/service/conversation"
	"github.com/heartmarshall/terminology-bot/pkg/ctxutil"
)

// SenderPrefix namespaces Telegram user ids among conversation senders.
const SenderPrefix = "tg:"

type botAPI interface {
	GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

type handler interface {
	Handle(ctx context.Context, in conversation.Inbound) (conversation.Reply, error)
}

// Poller receives updates and feeds them to the handler. Updates from one
// chat always go to the same worker, so they are handled in order.
type Poller struct {
	bot     botAPI
	handler handler
	cfg     config.TelegramConfig
	files   *fileFetcher
	log     *slog.Logger
}

// NewBot authorizes against the Bot API with the configured token.
func NewBot(cfg config.TelegramConfig) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: authorize: %w", err)
	}
	bot.Debug = cfg.Debug
	return bot, nil
}

// NewPoller creates a Poller over an authorized bot.
func NewPoller(log *slog.Logger, bot botAPI, h handler, cfg config.TelegramConfig) *Poller {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Poller{
		bot:     bot,
		handler: h,
		cfg:     cfg,
		files:   newFileFetcher(bot),
		log:     log.With("adapter", "telegram"),
	}
}

// Run polls until ctx is cancelled, then drains the workers.
func (p *Poller) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(p.cfg.PollTimeout.Seconds())
	updates := p.bot.GetUpdatesChan(u)

	queues := make([]chan tgbotapi.Update, p.cfg.Workers)
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	for i := range queues {
		queues[i] = make(chan tgbotapi.Update, 16)
		q := queues[i]
		g.Go(func() error {
			for upd := range q {
				p.handle(gctx, upd)
			}
			return nil
		})
	}

	p.log.InfoContext(ctx, "polling started", slog.Int("workers", p.cfg.Workers))

	defer func() {
		for _, q := range queues {
			close(q)
		}
		_ = g.Wait()
		p.log.Info("polling stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			p.bot.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				return errors.New("telegram: updates channel closed")
			}
			if upd.Message == nil || upd.Message.Chat == nil {
				continue
			}
			queues[workerFor(upd.Message.Chat.ID, len(queues))] <- upd
		}
	}
}

func workerFor(chatID int64, n int) int {
	return int(uint64(chatID) % uint64(n))
}

func (p *Poller) handle(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	in, ok := p.inbound(msg)
	if !ok {
		return
	}

	ctx = ctxutil.WithRequestID(ctx, strconv.Itoa(upd.UpdateID))
	reply, err := p.handler.Handle(ctx, in)
	if err != nil {
		p.log.ErrorContext(ctx, "handle message",
			slog.String("sender_id", in.SenderID),
			slog.String("error", err.Error()),
		)
	}

	if reply.Text == "" {
		return
	}
	if _, err := p.bot.Send(outgoing(msg.Chat.ID, reply)); err != nil {
		p.log.ErrorContext(ctx, "send reply",
			slog.String("sender_id", in.SenderID),
			slog.String("error", err.Error()),
		)
	}
}

// inbound converts a Telegram message. Messages without a sender or any
// usable content are dropped.
func (p *Poller) inbound(msg *tgbotapi.Message) (conversation.Inbound, bool) {
	if msg.From == nil {
		return conversation.Inbound{}, false
	}

	in := conversation.Inbound{
		SenderID: SenderPrefix + strconv.FormatInt(msg.From.ID, 10),
		Locale:   msg.From.LanguageCode,
		Text:     msg.Text,
		Media:    p.files.media(msg),
	}
	if in.Text == "" && in.Media == nil {
		return conversation.Inbound{}, false
	}
	return in, true
}

// outgoing maps a reply to a message with a reply keyboard, a keyboard
// removal, or neither.
func outgoing(chatID int64, reply conversation.Reply) tgbotapi.MessageConfig {
	out := tgbotapi.NewMessage(chatID, reply.Text)

	switch {
	case len(reply.Choices) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(reply.Choices))
		for _, group := range reply.Choices {
			row := make([]tgbotapi.KeyboardButton, 0, len(group))
			for _, label := range group {
				row = append(row, tgbotapi.NewKeyboardButton(label))
			}
			rows = append(rows, row)
		}
		kb := tgbotapi.NewReplyKeyboard(rows...)
		kb.ResizeKeyboard = true
		out.ReplyMarkup = kb
	case reply.RemoveChoices:
		out.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}

	return out
}
