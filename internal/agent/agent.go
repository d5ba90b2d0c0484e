// Package agent dispatches interpreted commands to the persistence layer
// and produces render-ready results. One message in, one reply out;
// nothing here holds state between messages.
package agent

import (
	"context"
	"io"
	"log/slog"

	"github.com/edgard/kirokubot/internal/database"
	"github.com/edgard/kirokubot/internal/parser"
	"github.com/edgard/kirokubot/internal/respond"
)

// listFetchLimit bounds how many rows a list or search pulls from the
// store; the renderer truncates further for display but needs the real
// count for its "showing K of N" suffix.
const listFetchLimit = 200

// Agent routes parsed commands to their handlers. The store is injected
// at construction; there is no package-level state.
type Agent struct {
	store  database.Store
	logger *slog.Logger
}

// New creates an Agent backed by the given store.
func New(store database.Store, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Agent{
		store:  store,
		logger: logger.With("component", "agent"),
	}
}

// HandleMessage interprets one message for a user and returns the
// localized reply. It never returns an error; every failure mode maps to
// a reply string. Unknown input short-circuits before any store access.
func (a *Agent) HandleMessage(ctx context.Context, userID int64, text string) string {
	cmd := parser.Parse(text)
	log := a.logger.With("user_id", userID, "intent", cmd.Intent, "lang", cmd.Lang)

	if cmd.Intent == parser.IntentUnknown {
		log.DebugContext(ctx, "Unclassified message")
		return respond.Unknown(cmd.Lang)
	}

	lang := cmd.Lang
	pref, err := a.store.GetUserPref(ctx, userID)
	switch {
	case err != nil:
		log.WarnContext(ctx, "Failed to read language preference, using detected language", "error", err)
	case pref != nil:
		if stored := parser.Language(pref.Language); stored.IsValid() {
			lang = stored
		}
	}

	res := a.dispatch(ctx, userID, cmd)

	// A successful language change answers in the newly chosen language.
	if cmd.Intent == parser.IntentSetLanguage && res.Outcome == respond.OutcomeSuccess {
		lang = res.SetLang
	}

	log.DebugContext(ctx, "Command dispatched", "outcome", res.Outcome)
	return respond.Render(res, lang)
}

// dispatch selects exactly one handler per intent. No fallthrough, no
// chaining; intents without persistence needs resolve inline.
func (a *Agent) dispatch(ctx context.Context, userID int64, cmd parser.Command) respond.Result {
	e := cmd.Entities
	switch cmd.Intent {
	case parser.IntentAddRecord:
		return a.handleAddRecord(ctx, userID, e)
	case parser.IntentAddKey:
		return a.handleAddKey(ctx, userID, e)
	case parser.IntentRecordMetric:
		return a.handleRecordMetric(ctx, userID, e)
	case parser.IntentListRecords:
		return a.handleListRecords(ctx, userID, e)
	case parser.IntentGetRecord:
		return a.handleGetRecord(ctx, userID, e)
	case parser.IntentSearchRecords:
		return a.handleSearchRecords(ctx, userID, e)
	case parser.IntentSummary:
		return a.handleSummary(ctx, userID, e)
	case parser.IntentUpdateRecord:
		return a.handleUpdateRecord(ctx, userID, e)
	case parser.IntentDeleteRecord:
		return a.handleDeleteRecord(ctx, userID, e)
	case parser.IntentSetLanguage:
		return a.handleSetLanguage(ctx, userID, e)
	case parser.IntentHelp:
		return respond.Result{Intent: parser.IntentHelp, Outcome: respond.OutcomeSuccess}
	default:
		return respond.Result{Intent: parser.IntentUnknown, Outcome: respond.OutcomeSuccess}
	}
}

func missing(intent parser.Intent, slot string) respond.Result {
	return respond.Result{Intent: intent, Outcome: respond.OutcomeMissing, Missing: slot}
}

func storageFailure(intent parser.Intent) respond.Result {
	return respond.Result{Intent: intent, Outcome: respond.OutcomeError}
}

func notFound(intent parser.Intent, id int64) respond.Result {
	return respond.Result{Intent: intent, Outcome: respond.OutcomeNotFound, ID: id}
}
