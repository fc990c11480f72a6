package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/terminology-bot/internal/domain"
	"github.com/heartmarshall/terminology-bot/internal/presenter"
	"github.com/heartmarshall/terminology-bot/internal/service/resolver"
)

// ---------------------------------------------------------------------------
// START_MENU / NEW_TERM
// ---------------------------------------------------------------------------

func (m *Machine) handleStartMenu(ctx context.Context, t *turn) (Reply, error) {
	if key, ok := t.loc.MatchLabel(t.in.Text); ok && key == presenter.LabelAddTerm {
		t.sess.State = StateNewTerm
		return Reply{
			Text:          t.loc.T(presenter.MsgAskNewTerm),
			RemoveChoices: true,
		}, nil
	}
	return m.greet(t), nil
}

func (m *Machine) handleNewTerm(ctx context.Context, t *turn) (Reply, error) {
	name := domain.NormalizeText(t.in.Text)
	if domain.ValidateTermName(name) != nil {
		return Reply{}, reject(Reply{Text: t.loc.T(presenter.MsgInvalidName)})
	}

	term, created, err := m.terms.CreateIfAbsent(ctx, name)
	if err != nil {
		return Reply{}, fmt.Errorf("create term: %w", err)
	}

	msg := presenter.MsgTermExists
	if created {
		msg = presenter.MsgTermCreated
		m.log.InfoContext(ctx, "term created",
			slog.String("term_id", term.ID.String()),
			slog.String("name", term.Name),
		)
	}

	t.sess.State = StateStartMenu
	return Reply{
		Text:    t.loc.T(msg, term.Name) + "\n" + t.loc.T(presenter.MsgStartMenu),
		Choices: t.loc.StartMenu(),
	}, nil
}

// ---------------------------------------------------------------------------
// CHOOSE_TERM
// ---------------------------------------------------------------------------

// enterChooseTerm shows a fresh listing and caches it in the session.
// An empty glossary returns to START_MENU.
func (m *Machine) enterChooseTerm(ctx context.Context, t *turn, prefix string) (Reply, error) {
	terms, err := m.terms.List(ctx)
	if err != nil {
		return Reply{}, fmt.Errorf("list terms: %w", err)
	}

	t.sess.Pending = nil

	if len(terms) == 0 {
		t.sess.State = StateStartMenu
		t.sess.Listing = nil
		return Reply{
			Text:    joinLines(prefix, t.loc.T(presenter.MsgEmptyGlossary)),
			Choices: t.loc.StartMenu(),
		}, nil
	}

	t.sess.State = StateChooseTerm
	t.sess.Listing = snapshot(terms)
	return Reply{
		Text:          joinLines(prefix, t.loc.T(presenter.MsgChooseTerm), t.loc.RenderTermListing(terms)),
		RemoveChoices: true,
	}, nil
}

func (m *Machine) handleChooseTerm(ctx context.Context, t *turn) (Reply, error) {
	n := len(t.sess.Listing)
	k, err := strconv.Atoi(strings.TrimSpace(t.in.Text))
	if err != nil || k < 1 || k > n {
		return Reply{}, reject(Reply{Text: t.loc.T(presenter.MsgInvalidIndex, n)})
	}

	// Resolve against the cached snapshot, never a fresh listing.
	id := t.sess.Listing[k-1].ID
	t.sess.CurrentTermID = &id

	return m.showOptions(ctx, t, nil, "")
}

// ---------------------------------------------------------------------------
// CHOOSE_OPTION
// ---------------------------------------------------------------------------

// showOptions renders the current term profile and enters CHOOSE_OPTION.
// term may be nil, in which case it is loaded.
func (m *Machine) showOptions(ctx context.Context, t *turn, term *domain.Term, prefix string) (Reply, error) {
	id := *t.sess.CurrentTermID

	if term == nil {
		var err error
		term, err = m.terms.GetByID(ctx, id)
		if err != nil {
			return Reply{}, fmt.Errorf("get term: %w", err)
		}
	}

	synonyms, err := m.terms.GetRelated(ctx, id, domain.RelationSynonym)
	if err != nil {
		return Reply{}, fmt.Errorf("get synonyms: %w", err)
	}
	similars, err := m.terms.GetRelated(ctx, id, domain.RelationSimilar)
	if err != nil {
		return Reply{}, fmt.Errorf("get similar words: %w", err)
	}

	t.sess.State = StateChooseOption
	t.sess.Pending = nil

	profile := t.loc.RenderTermProfile(presenter.TermProfile{
		Term:     *term,
		Synonyms: synonyms,
		Similars: similars,
	})
	return Reply{
		Text:    joinLines(prefix, profile+"\n\n"+t.loc.T(presenter.MsgChooseOption)),
		Choices: t.loc.OptionMenu(),
	}, nil
}

func (m *Machine) handleChooseOption(ctx context.Context, t *turn) (Reply, error) {
	key, _ := t.loc.MatchLabel(t.in.Text)

	switch key {
	case presenter.LabelPOS:
		t.sess.State = StatePOS
		return Reply{Text: t.loc.T(presenter.MsgAskPOS), Choices: t.loc.POSChoices()}, nil
	case presenter.LabelDescription:
		t.sess.State = StateDescription
		return Reply{Text: t.loc.T(presenter.MsgAskDescription), RemoveChoices: true}, nil
	case presenter.LabelSynonyms:
		t.sess.State = StateSynonyms
		return Reply{Text: t.loc.T(presenter.MsgAskSynonyms), RemoveChoices: true}, nil
	case presenter.LabelSimilars:
		t.sess.State = StateSimilars
		return Reply{Text: t.loc.T(presenter.MsgAskSimilars), RemoveChoices: true}, nil
	case presenter.LabelImage:
		return m.askMedia(t, StateImage, domain.MediaImage), nil
	case presenter.LabelAudio:
		return m.askMedia(t, StateAudio, domain.MediaAudio), nil
	case presenter.LabelVideo:
		return m.askMedia(t, StateVideo, domain.MediaVideo), nil
	}

	return Reply{}, reject(Reply{
		Text:    t.loc.T(presenter.MsgUnknownOption),
		Choices: t.loc.OptionMenu(),
	})
}

func (m *Machine) askMedia(t *turn, next State, kind domain.MediaKind) Reply {
	t.sess.State = next
	return Reply{Text: t.loc.T(presenter.MsgAskMedia, t.loc.MediaLabel(kind)), RemoveChoices: true}
}

// ---------------------------------------------------------------------------
// Attribute states: one Term Store mutation each
// ---------------------------------------------------------------------------

func (m *Machine) handlePOS(ctx context.Context, t *turn) (Reply, error) {
	pos, ok := t.loc.ParsePOS(t.in.Text)
	if !ok || t.in.Media != nil {
		return Reply{}, reject(Reply{
			Text:    t.loc.T(presenter.MsgInvalidPOS, t.loc.POSList()),
			Choices: t.loc.POSChoices(),
		})
	}
	return m.apply(ctx, t, domain.SetPartOfSpeech{Value: pos})
}

func (m *Machine) handleDescription(ctx context.Context, t *turn) (Reply, error) {
	cmd := domain.SetDescription{Value: strings.TrimSpace(t.in.Text)}
	if err := cmd.Validate(); err != nil || t.in.Media != nil {
		return Reply{}, reject(Reply{Text: t.loc.T(presenter.MsgInvalidDescription, domain.MaxDescriptionLength)})
	}
	return m.apply(ctx, t, cmd)
}

func (m *Machine) handleMedia(ctx context.Context, t *turn) (Reply, error) {
	kind, _ := t.sess.State.mediaKind()

	media := t.in.Media
	if media == nil || media.Kind != kind || media.Source == nil {
		return Reply{}, reject(Reply{Text: t.loc.T(presenter.MsgInvalidMedia, t.loc.MediaLabel(kind))})
	}

	id := *t.sess.CurrentTermID

	rc, err := media.Source.Open(ctx)
	if err != nil {
		return Reply{}, fmt.Errorf("open %s attachment: %w", kind, err)
	}
	defer rc.Close()

	name, err := m.media.Save(ctx, kind, id, rc)
	if err != nil {
		return Reply{}, fmt.Errorf("store %s: %w", kind, err)
	}

	return m.apply(ctx, t, domain.SetMedia{Kind: kind, Name: name})
}

func (m *Machine) apply(ctx context.Context, t *turn, cmd domain.UpdateTermCommand) (Reply, error) {
	id := *t.sess.CurrentTermID

	term, err := m.terms.Apply(ctx, id, cmd)
	if err != nil {
		return Reply{}, fmt.Errorf("set %s: %w", cmd.Attribute(), err)
	}

	m.log.InfoContext(ctx, "term updated",
		slog.String("term_id", id.String()),
		slog.String("attribute", cmd.Attribute()),
	)

	return m.showOptions(ctx, t, term, t.loc.T(presenter.MsgSaved))
}

// ---------------------------------------------------------------------------
// SYNONYMS / SIMILARS / CLARIFY_CHOICE
// ---------------------------------------------------------------------------

func (m *Machine) handleRelations(ctx context.Context, t *turn) (Reply, error) {
	kind, _ := t.sess.State.relationKind()

	words := resolver.ParseWordList(t.in.Text)
	switch {
	case len(words) == 0 || t.in.Media != nil:
		return Reply{}, reject(Reply{Text: t.loc.T(presenter.MsgNoWords)})
	case m.cfg.MaxWordsPerBatch > 0 && len(words) > m.cfg.MaxWordsPerBatch:
		return Reply{}, reject(Reply{Text: t.loc.T(presenter.MsgTooManyWords, m.cfg.MaxWordsPerBatch)})
	}
	for _, word := range words {
		if domain.ValidateTermName(word) != nil {
			return Reply{}, reject(Reply{Text: t.loc.T(presenter.MsgWordTooLong, domain.MaxTermNameLength)})
		}
	}

	id := *t.sess.CurrentTermID

	result, err := m.resolver.ResolveAndLink(ctx, id, kind, words)
	if err != nil {
		return Reply{}, fmt.Errorf("resolve %s: %w", kind, err)
	}

	summary := m.summarize(t, result)

	if !result.Ambiguous() {
		return m.showOptions(ctx, t, nil, summary)
	}

	t.sess.State = StateClarifyChoice
	t.sess.Pending = &Clarification{
		Kind:       kind,
		Candidates: snapshot(result.Candidates),
	}
	return Reply{
		Text:          joinLines(summary, t.loc.T(presenter.MsgClarify), t.loc.RenderCandidates(result.Candidates)),
		RemoveChoices: true,
	}, nil
}

func (m *Machine) summarize(t *turn, result *resolver.Result) string {
	var lines []string
	if len(result.Linked) > 0 {
		names := make([]string, len(result.Linked))
		for i, term := range result.Linked {
			names[i] = term.Name
		}
		lines = append(lines, t.loc.T(presenter.MsgLinked, presenter.JoinNames(names)))
	}
	if len(result.Skipped) > 0 {
		lines = append(lines, t.loc.T(presenter.MsgSkipped, presenter.JoinNames(result.Skipped)))
	}
	return joinLines(lines...)
}

func (m *Machine) handleClarify(ctx context.Context, t *turn) (Reply, error) {
	pending := t.sess.Pending
	if pending == nil {
		return m.showOptions(ctx, t, nil, "")
	}

	ids := make([]uuid.UUID, len(pending.Candidates))
	names := make(map[uuid.UUID]string, len(pending.Candidates))
	for i, c := range pending.Candidates {
		ids[i] = c.ID
		names[c.ID] = c.Name
	}

	chosen, err := m.resolver.Clarify(ctx, *t.sess.CurrentTermID, pending.Kind, ids, t.in.Text)
	if errors.Is(err, domain.ErrValidation) {
		return Reply{}, reject(Reply{Text: t.loc.T(presenter.MsgInvalidIndices, len(ids))})
	}
	if err != nil {
		return Reply{}, fmt.Errorf("clarify %s: %w", pending.Kind, err)
	}

	linked := make([]string, len(chosen))
	for i, id := range chosen {
		linked[i] = names[id]
	}

	var prefix string
	if len(linked) > 0 {
		prefix = t.loc.T(presenter.MsgLinked, presenter.JoinNames(linked))
	}
	return m.showOptions(ctx, t, nil, prefix)
}

// joinLines joins the non-empty parts with newlines.
func joinLines(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
