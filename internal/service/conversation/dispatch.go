package conversation

import (
	"context"
	"strings"

	"github.com/heartmarshall/terminology-bot/internal/presenter"
)

// Chat commands accepted from any state.
const (
	CommandStart   = "/start"
	CommandRestart = "/restart"
	CommandCancel  = "/cancel"
	CommandTerms   = "/terms"
	CommandMenu    = "/menu"
)

func (m *Machine) dispatch(ctx context.Context, t *turn) (Reply, error) {
	if t.in.Media == nil {
		if reply, ok, err := m.interrupt(ctx, t); ok {
			return reply, err
		}
	}

	if t.sess.State.RequiresTerm() && t.sess.CurrentTermID == nil {
		t.sess.Reset()
		return m.greet(t), nil
	}

	switch t.sess.State {
	case StateStartMenu:
		return m.handleStartMenu(ctx, t)
	case StateNewTerm:
		return m.handleNewTerm(ctx, t)
	case StateChooseTerm:
		return m.handleChooseTerm(ctx, t)
	case StateChooseOption:
		return m.handleChooseOption(ctx, t)
	case StatePOS:
		return m.handlePOS(ctx, t)
	case StateDescription:
		return m.handleDescription(ctx, t)
	case StateSynonyms, StateSimilars:
		return m.handleRelations(ctx, t)
	case StateClarifyChoice:
		return m.handleClarify(ctx, t)
	case StateImage, StateAudio, StateVideo:
		return m.handleMedia(ctx, t)
	default:
		t.sess.Reset()
		return m.greet(t), nil
	}
}

// interrupt handles the commands valid in every non-terminal state.
// Slash commands work everywhere; button labels only where a keyboard is shown.
func (m *Machine) interrupt(ctx context.Context, t *turn) (Reply, bool, error) {
	text := strings.TrimSpace(t.in.Text)

	if cmd, ok := parseCommand(text); ok {
		switch cmd {
		case CommandStart, CommandRestart:
			t.sess.Reset()
			return m.greet(t), true, nil
		case CommandCancel:
			return m.cancel(t), true, nil
		case CommandTerms:
			reply, err := m.enterChooseTerm(ctx, t, "")
			return reply, true, err
		case CommandMenu:
			reply, err := m.menu(ctx, t)
			return reply, true, err
		}
		return Reply{}, true, reject(Reply{Text: t.loc.T(presenter.MsgUnknownCommand)})
	}

	// Typed text in these states is data, so a word equal to a label is not a command.
	if t.sess.State.AcceptsFreeText() {
		return Reply{}, false, nil
	}

	key, ok := t.loc.MatchLabel(text)
	if !ok {
		return Reply{}, false, nil
	}
	switch key {
	case presenter.LabelListTerms:
		reply, err := m.enterChooseTerm(ctx, t, "")
		return reply, true, err
	case presenter.LabelCancel:
		return m.cancel(t), true, nil
	case presenter.LabelMenu:
		reply, err := m.menu(ctx, t)
		return reply, true, err
	}
	return Reply{}, false, nil
}

// parseCommand extracts "/cmd" from "/cmd@botname args".
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	cmd := strings.Fields(text)[0]
	if at := strings.IndexByte(cmd, '@'); at > 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), true
}

func (m *Machine) greet(t *turn) Reply {
	return Reply{
		Text:    t.loc.T(presenter.MsgGreeting),
		Choices: t.loc.StartMenu(),
	}
}

func (m *Machine) cancel(t *turn) Reply {
	t.sess.State = StateEnd
	return Reply{
		Text:          t.loc.T(presenter.MsgCancelled),
		RemoveChoices: true,
	}
}

func (m *Machine) menu(ctx context.Context, t *turn) (Reply, error) {
	if t.sess.CurrentTermID == nil {
		return Reply{}, reject(Reply{Text: t.loc.T(presenter.MsgNoCurrentTerm)})
	}
	return m.showOptions(ctx, t, nil, "")
}
