package agent_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/edgard/kirokubot/internal/agent"
	"github.com/edgard/kirokubot/internal/database"
)

// memStore is an in-memory database.Store that counts every call, so
// tests can assert which messages touch persistence at all.
type memStore struct {
	records    map[int64]database.Record
	prefs      map[int64]database.UserPref
	nextID     int64
	calls      int
	failCreate bool
}

func newMemStore() *memStore {
	return &memStore{
		records: make(map[int64]database.Record),
		prefs:   make(map[int64]database.UserPref),
		nextID:  1,
	}
}

func (s *memStore) Ping(ctx context.Context) error {
	s.calls++
	return nil
}

func (s *memStore) CreateRecord(ctx context.Context, record *database.Record) (int64, error) {
	s.calls++
	if s.failCreate {
		return 0, errors.New("disk full")
	}
	id := s.nextID
	s.nextID++
	r := *record
	r.ID = id
	s.records[id] = r
	return id, nil
}

func (s *memStore) GetRecord(ctx context.Context, userID, id int64) (*database.Record, error) {
	s.calls++
	r, ok := s.records[id]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	return &r, nil
}

func (s *memStore) ListRecords(ctx context.Context, userID int64, kind string, year int, category string, limit int) ([]database.Record, error) {
	s.calls++
	var out []database.Record
	for _, r := range s.records {
		if r.UserID != userID {
			continue
		}
		if kind != "" && r.Kind != kind {
			continue
		}
		if year != 0 && r.Year != year {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *memStore) SearchRecords(ctx context.Context, userID int64, keyword string, limit int) ([]database.Record, error) {
	s.calls++
	var out []database.Record
	for _, r := range s.records {
		if r.UserID != userID {
			continue
		}
		if strings.Contains(r.Name, keyword) || strings.Contains(r.Category, keyword) || strings.Contains(r.Note, keyword) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) UpdateRecord(ctx context.Context, record *database.Record) (bool, error) {
	s.calls++
	r, ok := s.records[record.ID]
	if !ok || r.UserID != record.UserID {
		return false, nil
	}
	if record.Amount.Valid {
		r.Amount = record.Amount
	}
	if record.Name != "" {
		r.Name = record.Name
	}
	if record.Category != "" {
		r.Category = record.Category
	}
	s.records[record.ID] = r
	return true, nil
}

func (s *memStore) DeleteRecord(ctx context.Context, userID, id int64) (bool, error) {
	s.calls++
	r, ok := s.records[id]
	if !ok || r.UserID != userID {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}

func (s *memStore) AggregateRecords(ctx context.Context, userID int64, year int) (*database.RecordStats, error) {
	s.calls++
	stats := &database.RecordStats{Year: year}
	for _, r := range s.records {
		if r.UserID != userID || r.Kind != database.KindExpense || r.Year != year {
			continue
		}
		stats.Count++
		stats.Total += r.Amount.Float64
	}
	return stats, nil
}

func (s *memStore) GetUserPref(ctx context.Context, userID int64) (*database.UserPref, error) {
	s.calls++
	p, ok := s.prefs[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memStore) SetUserPref(ctx context.Context, pref *database.UserPref) error {
	s.calls++
	s.prefs[pref.UserID] = *pref
	return nil
}

func (s *memStore) DeleteAllRecords(ctx context.Context) error {
	s.calls++
	s.records = make(map[int64]database.Record)
	return nil
}

func (s *memStore) RunSQLMaintenance(ctx context.Context) error {
	s.calls++
	return nil
}

func newTestAgent(store database.Store) *agent.Agent {
	return agent.New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleMessageAddKey(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	a := newTestAgent(store)

	out := a.HandleMessage(context.Background(), 42, "APIキー追加 名前:GitHub サービス:github.com")
	if !strings.Contains(out, "ID:") {
		t.Errorf("HandleMessage() = %q, want an ID: reference", out)
	}
	if !strings.Contains(out, "GitHub") {
		t.Errorf("HandleMessage() = %q, want name GitHub echoed back", out)
	}

	r, ok := store.records[1]
	if !ok {
		t.Fatalf("no record persisted")
	}
	if r.Kind != database.KindKey || r.Name != "GitHub" || r.Category != "github.com" {
		t.Errorf("persisted record = %+v, want key GitHub / github.com", r)
	}
}

func TestHandleMessageBareDeleteFallsBackToHelp(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.records[123] = database.Record{ID: 123, UserID: 42, Kind: database.KindExpense}
	a := newTestAgent(store)

	out := a.HandleMessage(context.Background(), 42, "削除 123")
	help := a.HandleMessage(context.Background(), 42, "ヘルプ")
	if out != help {
		t.Errorf("HandleMessage(削除 123) = %q, want the help text %q", out, help)
	}
	if _, ok := store.records[123]; !ok {
		t.Errorf("record 123 was deleted by an ambiguous message")
	}
}

func TestHandleMessageRecordMetric(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	a := newTestAgent(store)

	out := a.HandleMessage(context.Background(), 42, "CPU使用率50%を記録")
	for _, want := range []string{"CPU", "50", "%"} {
		if !strings.Contains(out, want) {
			t.Errorf("HandleMessage() = %q, want %q included", out, want)
		}
	}

	r := store.records[1]
	if r.Kind != database.KindMetric || r.Name != "CPU" || r.Amount.Float64 != 50.0 || r.Unit != "%" {
		t.Errorf("persisted record = %+v, want metric CPU 50 %%", r)
	}
}

func TestHandleMessageUnknownSkipsStore(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   ", "\t\n", "今日はいい天気ですね"} {
		store := newMemStore()
		a := newTestAgent(store)

		out := a.HandleMessage(context.Background(), 42, text)
		if out == "" {
			t.Errorf("HandleMessage(%q) returned empty response", text)
		}
		if store.calls != 0 {
			t.Errorf("HandleMessage(%q) made %d store calls, want 0", text, store.calls)
		}
	}
}

func TestHandleMessageRoundTrip(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	a := newTestAgent(store)
	ctx := context.Background()

	added := a.HandleMessage(ctx, 42, "記録追加 1000円 カテゴリ:食費")
	if !strings.Contains(added, "ID: 1") {
		t.Fatalf("HandleMessage(add) = %q, want ID: 1", added)
	}

	listed := a.HandleMessage(ctx, 42, "一覧")
	if !strings.Contains(listed, "#1") || !strings.Contains(listed, "1000") {
		t.Errorf("HandleMessage(list) = %q, want the added record shown", listed)
	}

	other := a.HandleMessage(ctx, 99, "一覧")
	if strings.Contains(other, "#1") {
		t.Errorf("HandleMessage(list) for another user = %q, leaked record #1", other)
	}

	keys := a.HandleMessage(ctx, 42, "キー一覧")
	if strings.Contains(keys, "#1") {
		t.Errorf("HandleMessage(key list) = %q, expense record leaked into kind filter", keys)
	}
}

func TestHandleMessageMissingEntity(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	a := newTestAgent(store)

	out := a.HandleMessage(context.Background(), 42, "記録追加 カテゴリ:食費")
	if !strings.Contains(out, "金額") {
		t.Errorf("HandleMessage() = %q, want a prompt naming 金額", out)
	}
	if len(store.records) != 0 {
		t.Errorf("record persisted despite missing amount")
	}
}

func TestHandleMessageNotFound(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	a := newTestAgent(store)
	ctx := context.Background()

	tests := []struct {
		name string
		text string
	}{
		{name: "Get", text: "詳細 #999"},
		{name: "Delete", text: "記録削除 #999"},
		{name: "Update", text: "記録更新 #999 金額:2000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := a.HandleMessage(ctx, 42, tt.text)
			if !strings.Contains(out, "#999") || !strings.Contains(out, "見つかりません") {
				t.Errorf("HandleMessage(%q) = %q, want not-found for #999", tt.text, out)
			}
		})
	}
}

func TestHandleMessageStorageError(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.failCreate = true
	a := newTestAgent(store)

	out := a.HandleMessage(context.Background(), 42, "記録追加 1000円")
	if !strings.Contains(out, "エラー") {
		t.Errorf("HandleMessage() = %q, want a generic error response", out)
	}
	if strings.Contains(out, "disk full") {
		t.Errorf("HandleMessage() = %q, leaked the internal error", out)
	}
}

func TestHandleMessageSetLanguage(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	a := newTestAgent(store)
	ctx := context.Background()

	out := a.HandleMessage(ctx, 42, "言語 英語")
	if !strings.Contains(out, "English") {
		t.Errorf("HandleMessage(言語 英語) = %q, want confirmation in English", out)
	}
	if p := store.prefs[42]; p.Language != "en" {
		t.Errorf("persisted preference = %q, want en", p.Language)
	}

	// Preference now wins over the detected language of later messages.
	listed := a.HandleMessage(ctx, 42, "一覧")
	if !strings.Contains(listed, "No records") {
		t.Errorf("HandleMessage(一覧) = %q, want English reply per stored preference", listed)
	}
}

func TestHandleMessageHelpIdempotent(t *testing.T) {
	t.Parallel()

	a := newTestAgent(newMemStore())
	ctx := context.Background()

	first := a.HandleMessage(ctx, 42, "help")
	second := a.HandleMessage(ctx, 42, "help")
	if first != second {
		t.Errorf("help responses differ:\n%q\n%q", first, second)
	}
	if !strings.Contains(first, "/help") && !strings.Contains(first, "ヘルプ") && !strings.Contains(first, "help") {
		t.Errorf("help response %q lists no commands", first)
	}
}

func TestHandleMessageSummary(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.records[1] = database.Record{ID: 1, UserID: 42, Kind: database.KindExpense, Year: 2024, Amount: sql.NullFloat64{Float64: 3000, Valid: true}}
	store.records[2] = database.Record{ID: 2, UserID: 42, Kind: database.KindExpense, Year: 2024, Amount: sql.NullFloat64{Float64: 1500, Valid: true}}
	a := newTestAgent(store)

	out := a.HandleMessage(context.Background(), 42, "2024年の集計")
	for _, want := range []string{"2024", "2", "4500"} {
		if !strings.Contains(out, want) {
			t.Errorf("HandleMessage() = %q, want %q included", out, want)
		}
	}
}
