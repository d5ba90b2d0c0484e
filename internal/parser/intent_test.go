package parser_test

import (
	"testing"

	"github.com/edgard/kirokubot/internal/parser"
)

func TestClassifyLanguageSymmetry(t *testing.T) {
	t.Parallel()

	// Each intent must be reachable through both language tables.
	tests := []struct {
		name     string
		japanese string
		english  string
		expected parser.Intent
	}{
		{
			name:     "add record",
			japanese: "記録追加 1000円",
			english:  "add record 1000 yen",
			expected: parser.IntentAddRecord,
		},
		{
			name:     "add key",
			japanese: "APIキー追加 名前:GitHub",
			english:  "add api key name:GitHub",
			expected: parser.IntentAddKey,
		},
		{
			name:     "record metric",
			japanese: "CPU使用率50%を記録",
			english:  "record CPU usage 50%",
			expected: parser.IntentRecordMetric,
		},
		{
			name:     "list",
			japanese: "一覧を見せて",
			english:  "list my records",
			expected: parser.IntentListRecords,
		},
		{
			name:     "detail",
			japanese: "詳細 #12",
			english:  "show details #12",
			expected: parser.IntentGetRecord,
		},
		{
			name:     "search",
			japanese: "検索 食費",
			english:  "search food",
			expected: parser.IntentSearchRecords,
		},
		{
			name:     "summary",
			japanese: "2024年の集計",
			english:  "summary 2024",
			expected: parser.IntentSummary,
		},
		{
			name:     "update",
			japanese: "記録更新 #3 金額:2000",
			english:  "update record #3 amount:2000",
			expected: parser.IntentUpdateRecord,
		},
		{
			name:     "delete",
			japanese: "記録削除 #3",
			english:  "delete record #3",
			expected: parser.IntentDeleteRecord,
		},
		{
			name:     "set language",
			japanese: "言語 英語",
			english:  "set language english",
			expected: parser.IntentSetLanguage,
		},
		{
			name:     "help",
			japanese: "ヘルプ",
			english:  "help",
			expected: parser.IntentHelp,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if intent, _ := parser.Classify(tt.japanese, parser.Japanese); intent != tt.expected {
				t.Errorf("Classify(%q, ja) = %q, want %q", tt.japanese, intent, tt.expected)
			}
			if intent, _ := parser.Classify(tt.english, parser.English); intent != tt.expected {
				t.Errorf("Classify(%q, en) = %q, want %q", tt.english, intent, tt.expected)
			}
		})
	}
}

func TestClassifyFirstMatchOrdering(t *testing.T) {
	t.Parallel()

	// The message matches both the metric rule (使用率) and the expense
	// rule (を記録); the metric rule is declared first and must win.
	intent, entities := parser.Classify("CPU使用率50%を記録", parser.Japanese)
	if intent != parser.IntentRecordMetric {
		t.Fatalf("Classify() = %q, want %q", intent, parser.IntentRecordMetric)
	}
	if entities.Value == nil || *entities.Value != 50 {
		t.Errorf("Classify() value = %v, want 50", entities.Value)
	}
	if entities.Unit == nil || *entities.Unit != "%" {
		t.Errorf("Classify() unit = %v, want %%", entities.Unit)
	}
	if entities.Metric == nil || *entities.Metric != "CPU" {
		t.Errorf("Classify() metric = %v, want CPU", entities.Metric)
	}
}

func TestClassifyExtractsFromOriginalCasing(t *testing.T) {
	t.Parallel()

	// Scenario: labeled entities keep their original casing even though
	// pattern matching runs on the lower-cased text.
	intent, entities := parser.Classify("APIキー追加 名前:GitHub サービス:github.com", parser.Japanese)
	if intent != parser.IntentAddKey {
		t.Fatalf("Classify() = %q, want %q", intent, parser.IntentAddKey)
	}
	if entities.Name == nil || *entities.Name != "GitHub" {
		t.Errorf("Classify() name = %v, want GitHub", entities.Name)
	}
	if entities.Service == nil || *entities.Service != "github.com" {
		t.Errorf("Classify() service = %v, want github.com", entities.Service)
	}
}

func TestClassifyFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		lang     parser.Language
		expected parser.Intent
	}{
		{
			name:     "Empty message",
			input:    "",
			lang:     parser.Japanese,
			expected: parser.IntentUnknown,
		},
		{
			name:     "Whitespace only",
			input:    "   \t ",
			lang:     parser.Japanese,
			expected: parser.IntentUnknown,
		},
		{
			name:     "Bare delete keyword never deletes",
			input:    "削除 123",
			lang:     parser.Japanese,
			expected: parser.IntentHelp,
		},
		{
			name:     "Currency amount infers add",
			input:    "1000円追加",
			lang:     parser.Japanese,
			expected: parser.IntentAddRecord,
		},
		{
			name:     "Unrelated chatter",
			input:    "今日はいい天気ですね",
			lang:     parser.Japanese,
			expected: parser.IntentUnknown,
		},
		{
			name:     "Unrelated English chatter",
			input:    "nice weather isn't it",
			lang:     parser.English,
			expected: parser.IntentUnknown,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			intent, _ := parser.Classify(tt.input, tt.lang)
			if intent != tt.expected {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.input, tt.lang, intent, tt.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	cmd := parser.Parse("記録追加 1000円 カテゴリ:食費")
	if cmd.Intent != parser.IntentAddRecord {
		t.Errorf("Parse() intent = %q, want %q", cmd.Intent, parser.IntentAddRecord)
	}
	if cmd.Lang != parser.Japanese {
		t.Errorf("Parse() lang = %q, want %q", cmd.Lang, parser.Japanese)
	}
	if cmd.Raw != "記録追加 1000円 カテゴリ:食費" {
		t.Errorf("Parse() raw = %q, want original text", cmd.Raw)
	}
	if cmd.Entities.Amount == nil || *cmd.Entities.Amount != 1000 {
		t.Errorf("Parse() amount = %v, want 1000", cmd.Entities.Amount)
	}
	if cmd.Entities.Category == nil || *cmd.Entities.Category != "食費" {
		t.Errorf("Parse() category = %v, want 食費", cmd.Entities.Category)
	}
}
