package agent

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/edgard/kirokubot/internal/database"
	"github.com/edgard/kirokubot/internal/parser"
	"github.com/edgard/kirokubot/internal/respond"
)

// Handlers validate required slots first, apply defaults for optional
// ones, and only then touch the store. Store errors never propagate;
// they become the generic error result.

func (a *Agent) handleAddRecord(ctx context.Context, userID int64, e parser.Entities) respond.Result {
	if e.Amount == nil {
		return missing(parser.IntentAddRecord, "amount")
	}

	year := time.Now().Year()
	switch {
	case e.Year != nil:
		year = *e.Year
	case e.Date != nil && len(*e.Date) >= 4:
		if y, err := strconv.Atoi((*e.Date)[:4]); err == nil {
			year = y
		}
	}

	record := &database.Record{
		UserID:   userID,
		Kind:     database.KindExpense,
		Category: deref(e.Category),
		Amount:   sql.NullFloat64{Float64: *e.Amount, Valid: true},
		Year:     year,
		Note:     deref(e.Note),
	}
	id, err := a.store.CreateRecord(ctx, record)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to create expense record", "user_id", userID, "error", err)
		return storageFailure(parser.IntentAddRecord)
	}
	return respond.Result{Intent: parser.IntentAddRecord, Outcome: respond.OutcomeSuccess, Record: record, ID: id}
}

func (a *Agent) handleAddKey(ctx context.Context, userID int64, e parser.Entities) respond.Result {
	if e.Name == nil {
		return missing(parser.IntentAddKey, "name")
	}

	record := &database.Record{
		UserID:   userID,
		Kind:     database.KindKey,
		Name:     *e.Name,
		Category: deref(e.Service),
		Year:     time.Now().Year(),
		Note:     deref(e.Note),
	}
	id, err := a.store.CreateRecord(ctx, record)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to create key record", "user_id", userID, "error", err)
		return storageFailure(parser.IntentAddKey)
	}
	return respond.Result{Intent: parser.IntentAddKey, Outcome: respond.OutcomeSuccess, Record: record, ID: id}
}

func (a *Agent) handleRecordMetric(ctx context.Context, userID int64, e parser.Entities) respond.Result {
	if e.Value == nil {
		return missing(parser.IntentRecordMetric, "value")
	}

	record := &database.Record{
		UserID: userID,
		Kind:   database.KindMetric,
		Name:   deref(e.Metric),
		Amount: sql.NullFloat64{Float64: *e.Value, Valid: true},
		Unit:   deref(e.Unit),
		Year:   time.Now().Year(),
	}
	id, err := a.store.CreateRecord(ctx, record)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to create metric record", "user_id", userID, "error", err)
		return storageFailure(parser.IntentRecordMetric)
	}
	return respond.Result{Intent: parser.IntentRecordMetric, Outcome: respond.OutcomeSuccess, Record: record, ID: id}
}

func (a *Agent) handleListRecords(ctx context.Context, userID int64, e parser.Entities) respond.Result {
	year := 0
	if e.Year != nil {
		year = *e.Year
	}
	records, err := a.store.ListRecords(ctx, userID, deref(e.Kind), year, deref(e.Category), listFetchLimit)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to list records", "user_id", userID, "error", err)
		return storageFailure(parser.IntentListRecords)
	}
	outcome := respond.OutcomeSuccess
	if len(records) == 0 {
		outcome = respond.OutcomeEmpty
	}
	return respond.Result{Intent: parser.IntentListRecords, Outcome: outcome, Records: records}
}

func (a *Agent) handleGetRecord(ctx context.Context, userID int64, e parser.Entities) respond.Result {
	if e.ID == nil {
		return missing(parser.IntentGetRecord, "id")
	}
	record, err := a.store.GetRecord(ctx, userID, *e.ID)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to get record", "user_id", userID, "record_id", *e.ID, "error", err)
		return storageFailure(parser.IntentGetRecord)
	}
	if record == nil {
		return notFound(parser.IntentGetRecord, *e.ID)
	}
	return respond.Result{Intent: parser.IntentGetRecord, Outcome: respond.OutcomeSuccess, Record: record, ID: record.ID}
}

func (a *Agent) handleSearchRecords(ctx context.Context, userID int64, e parser.Entities) respond.Result {
	if e.Keyword == nil {
		return missing(parser.IntentSearchRecords, "keyword")
	}
	records, err := a.store.SearchRecords(ctx, userID, *e.Keyword, listFetchLimit)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to search records", "user_id", userID, "error", err)
		return storageFailure(parser.IntentSearchRecords)
	}
	outcome := respond.OutcomeSuccess
	if len(records) == 0 {
		outcome = respond.OutcomeEmpty
	}
	return respond.Result{Intent: parser.IntentSearchRecords, Outcome: outcome, Records: records}
}

func (a *Agent) handleSummary(ctx context.Context, userID int64, e parser.Entities) respond.Result {
	year := time.Now().Year()
	if e.Year != nil {
		year = *e.Year
	}
	stats, err := a.store.AggregateRecords(ctx, userID, year)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to aggregate records", "user_id", userID, "year", year, "error", err)
		return storageFailure(parser.IntentSummary)
	}
	outcome := respond.OutcomeSuccess
	if stats.Count == 0 {
		outcome = respond.OutcomeEmpty
	}
	return respond.Result{Intent: parser.IntentSummary, Outcome: outcome, Stats: stats}
}

func (a *Agent) handleUpdateRecord(ctx context.Context, userID int64, e parser.Entities) respond.Result {
	if e.ID == nil {
		return missing(parser.IntentUpdateRecord, "id")
	}
	if e.Amount == nil && e.Name == nil && e.Category == nil {
		return missing(parser.IntentUpdateRecord, "fields")
	}

	record := &database.Record{
		ID:       *e.ID,
		UserID:   userID,
		Name:     deref(e.Name),
		Category: deref(e.Category),
	}
	if e.Amount != nil {
		record.Amount = sql.NullFloat64{Float64: *e.Amount, Valid: true}
	}
	found, err := a.store.UpdateRecord(ctx, record)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to update record", "user_id", userID, "record_id", *e.ID, "error", err)
		return storageFailure(parser.IntentUpdateRecord)
	}
	if !found {
		return notFound(parser.IntentUpdateRecord, *e.ID)
	}
	return respond.Result{Intent: parser.IntentUpdateRecord, Outcome: respond.OutcomeSuccess, ID: *e.ID}
}

func (a *Agent) handleDeleteRecord(ctx context.Context, userID int64, e parser.Entities) respond.Result {
	if e.ID == nil {
		return missing(parser.IntentDeleteRecord, "id")
	}
	found, err := a.store.DeleteRecord(ctx, userID, *e.ID)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to delete record", "user_id", userID, "record_id", *e.ID, "error", err)
		return storageFailure(parser.IntentDeleteRecord)
	}
	if !found {
		return notFound(parser.IntentDeleteRecord, *e.ID)
	}
	return respond.Result{Intent: parser.IntentDeleteRecord, Outcome: respond.OutcomeSuccess, ID: *e.ID}
}

func (a *Agent) handleSetLanguage(ctx context.Context, userID int64, e parser.Entities) respond.Result {
	if e.Lang == nil {
		return missing(parser.IntentSetLanguage, "language")
	}
	pref := &database.UserPref{UserID: userID, Language: string(*e.Lang)}
	if err := a.store.SetUserPref(ctx, pref); err != nil {
		a.logger.ErrorContext(ctx, "Failed to save language preference", "user_id", userID, "error", err)
		return storageFailure(parser.IntentSetLanguage)
	}
	return respond.Result{Intent: parser.IntentSetLanguage, Outcome: respond.OutcomeSuccess, SetLang: *e.Lang}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
