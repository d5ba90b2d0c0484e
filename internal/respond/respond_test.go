package respond_test

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/edgard/kirokubot/internal/database"
	"github.com/edgard/kirokubot/internal/parser"
	"github.com/edgard/kirokubot/internal/respond"
)

func makeRecords(n int) []database.Record {
	records := make([]database.Record, n)
	for i := range records {
		records[i] = database.Record{
			ID:       int64(i + 1),
			UserID:   42,
			Kind:     database.KindExpense,
			Category: "食費",
			Amount:   sql.NullFloat64{Float64: float64((i + 1) * 100), Valid: true},
			Year:     2024,
		}
	}
	return records
}

func TestRenderListTruncation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		count         int
		wantTruncated bool
		wantLines     int
	}{
		{name: "Below ceiling", count: 3, wantTruncated: false, wantLines: 3},
		{name: "Exactly at ceiling", count: 10, wantTruncated: false, wantLines: 10},
		{name: "One above ceiling", count: 11, wantTruncated: true, wantLines: 10},
		{name: "Far above ceiling", count: 37, wantTruncated: true, wantLines: 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := respond.Result{
				Intent:  parser.IntentListRecords,
				Outcome: respond.OutcomeSuccess,
				Records: makeRecords(tt.count),
			}
			out := respond.Render(res, parser.English)

			lines := strings.Count(out, "• #")
			if lines != tt.wantLines {
				t.Errorf("Render() shows %d entries, want %d\n%s", lines, tt.wantLines, out)
			}

			truncated := strings.Contains(out, "showing")
			if truncated != tt.wantTruncated {
				t.Errorf("Render() truncated = %v, want %v\n%s", truncated, tt.wantTruncated, out)
			}
			if tt.wantTruncated {
				suffix := fmt.Sprintf("showing 10 of %d", tt.count)
				if !strings.Contains(out, suffix) {
					t.Errorf("Render() missing suffix %q\n%s", suffix, out)
				}
			}
		})
	}
}

func TestRenderEmptyListDistinctFromNotFound(t *testing.T) {
	t.Parallel()

	empty := respond.Render(respond.Result{
		Intent:  parser.IntentListRecords,
		Outcome: respond.OutcomeEmpty,
	}, parser.English)
	notFound := respond.Render(respond.Result{
		Intent:  parser.IntentGetRecord,
		Outcome: respond.OutcomeNotFound,
		ID:      7,
	}, parser.English)

	if empty == notFound {
		t.Errorf("empty-list and not-found responses must differ, both were %q", empty)
	}
	if !strings.Contains(notFound, "#7") {
		t.Errorf("not-found response %q should reference the id", notFound)
	}
}

func TestRenderAddKeyIncludesIDAndName(t *testing.T) {
	t.Parallel()

	res := respond.Result{
		Intent:  parser.IntentAddKey,
		Outcome: respond.OutcomeSuccess,
		ID:      5,
		Record:  &database.Record{ID: 5, Name: "GitHub", Kind: database.KindKey},
	}

	for _, lang := range []parser.Language{parser.Japanese, parser.English} {
		out := respond.Render(res, lang)
		if !strings.Contains(out, "ID: 5") {
			t.Errorf("Render(%q) = %q, want ID: reference", lang, out)
		}
		if !strings.Contains(out, "GitHub") {
			t.Errorf("Render(%q) = %q, want name GitHub", lang, out)
		}
	}
}

func TestRenderMissingFieldLocalized(t *testing.T) {
	t.Parallel()

	res := respond.Result{
		Intent:  parser.IntentAddRecord,
		Outcome: respond.OutcomeMissing,
		Missing: "amount",
	}

	ja := respond.Render(res, parser.Japanese)
	if !strings.Contains(ja, "金額") {
		t.Errorf("Render(ja) = %q, want field 金額", ja)
	}
	en := respond.Render(res, parser.English)
	if !strings.Contains(en, "amount") {
		t.Errorf("Render(en) = %q, want field amount", en)
	}
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	out := respond.Render(respond.Result{
		Intent:  parser.IntentSummary,
		Outcome: respond.OutcomeSuccess,
		Stats:   &database.RecordStats{Year: 2024, Count: 3, Total: 4500},
	}, parser.Japanese)
	for _, want := range []string{"2024", "3", "4500"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() = %q, want %q included", out, want)
		}
	}

	empty := respond.Render(respond.Result{
		Intent:  parser.IntentSummary,
		Outcome: respond.OutcomeEmpty,
		Stats:   &database.RecordStats{Year: 2030},
	}, parser.English)
	if !strings.Contains(empty, "2030") || !strings.Contains(empty, "No records") {
		t.Errorf("Render() = %q, want empty-year message", empty)
	}
}

func TestHelpAndUnknownBothLanguages(t *testing.T) {
	t.Parallel()

	if ja, en := respond.Help(parser.Japanese), respond.Help(parser.English); ja == en || ja == "" || en == "" {
		t.Errorf("Help() must differ per language and be non-empty")
	}
	if ja, en := respond.Unknown(parser.Japanese), respond.Unknown(parser.English); ja == en || ja == "" || en == "" {
		t.Errorf("Unknown() must differ per language and be non-empty")
	}
}
