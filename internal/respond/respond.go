// Package respond renders dispatch results into localized, human-readable
// reply strings from a (response-key, language) template table.
package respond

import (
	"strconv"
	"strings"

	"github.com/edgard/kirokubot/internal/database"
	"github.com/edgard/kirokubot/internal/parser"
)

// Outcome tags how a dispatched command turned out; together with the
// intent it selects the response template.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeEmpty    Outcome = "empty"
	OutcomeNotFound Outcome = "not_found"
	OutcomeMissing  Outcome = "missing"
	OutcomeError    Outcome = "error"
)

// Result is the payload handed from the dispatcher to the renderer. Only
// the fields relevant to the intent/outcome pair are set.
type Result struct {
	Intent  parser.Intent
	Outcome Outcome
	Record  *database.Record
	Records []database.Record
	Stats   *database.RecordStats
	ID      int64
	Missing string          // slot name for OutcomeMissing
	SetLang parser.Language // language chosen by set_language
}

// listLimit is the hard ceiling on rendered list entries. Longer results
// are truncated with a "showing K of N" suffix; a list of exactly
// listLimit entries renders without the suffix.
const listLimit = 10

// templates is the two-dimensional (key × language) response table.
// Placeholders in {braces} are substituted by Render.
var templates = map[string]map[parser.Language]string{
	"add_record.success": {
		parser.Japanese: "✅ 記録を追加しました。ID: {id}（{amount}円）",
		parser.English:  "✅ Record added. ID: {id} ({amount} yen)",
	},
	"add_key.success": {
		parser.Japanese: "🔑 キーを登録しました。ID: {id}（{name}）",
		parser.English:  "🔑 Key saved. ID: {id} ({name})",
	},
	"record_metric.success": {
		parser.Japanese: "📈 {metric}を記録しました。ID: {id}（{value}{unit}）",
		parser.English:  "📈 Recorded {metric}. ID: {id} ({value}{unit})",
	},
	"list_records.header": {
		parser.Japanese: "📋 記録一覧:",
		parser.English:  "📋 Your records:",
	},
	"list_records.empty": {
		parser.Japanese: "📋 記録が見つかりませんでした。",
		parser.English:  "📋 No records found.",
	},
	"search_records.header": {
		parser.Japanese: "🔍 検索結果:",
		parser.English:  "🔍 Search results:",
	},
	"search_records.empty": {
		parser.Japanese: "🔍 該当する記録はありませんでした。",
		parser.English:  "🔍 No matching records.",
	},
	"get_record.success": {
		parser.Japanese: "📄 記録 #{id}\n種類: {kind}\n名前: {name}\nカテゴリ: {category}\n金額: {amount}\n年: {year}\nメモ: {note}",
		parser.English:  "📄 Record #{id}\nKind: {kind}\nName: {name}\nCategory: {category}\nAmount: {amount}\nYear: {year}\nNote: {note}",
	},
	"summary.success": {
		parser.Japanese: "📊 {year}年の集計: {count}件、合計 {total}円",
		parser.English:  "📊 Summary for {year}: {count} records, {total} yen total",
	},
	"summary.empty": {
		parser.Japanese: "📊 {year}年の記録はありません。",
		parser.English:  "📊 No records for {year}.",
	},
	"update_record.success": {
		parser.Japanese: "✏️ 記録 #{id} を更新しました。",
		parser.English:  "✏️ Record #{id} updated.",
	},
	"delete_record.success": {
		parser.Japanese: "🗑️ 記録 #{id} を削除しました。",
		parser.English:  "🗑️ Record #{id} deleted.",
	},
	"set_language.success": {
		parser.Japanese: "🌐 言語を{language}に設定しました。",
		parser.English:  "🌐 Language set to {language}.",
	},
	"not_found": {
		parser.Japanese: "❌ 記録 #{id} は見つかりませんでした。",
		parser.English:  "❌ Record #{id} not found.",
	},
	"missing": {
		parser.Japanese: "⚠️ {field}を指定してください。",
		parser.English:  "⚠️ Please specify the {field}.",
	},
	"error": {
		parser.Japanese: "❌ エラーが発生しました。しばらくしてからもう一度お試しください。",
		parser.English:  "❌ An error occurred. Please try again later.",
	},
	"unknown": {
		parser.Japanese: "❓ すみません、わかりませんでした。「ヘルプ」と送ってください。",
		parser.English:  "❓ Sorry, I didn't understand that. Try 'help'.",
	},
	"welcome": {
		parser.Japanese: "👋 こんにちは！記録ボットです。メッセージを送るだけで支出・キー・メトリクスを記録できます。「ヘルプ」で使い方を表示します。",
		parser.English:  "👋 Hi! I'm your record-keeping bot. Just send a message to record expenses, keys, or metrics. Send 'help' for usage.",
	},
	"reset_done": {
		parser.Japanese: "🔄 すべての記録を削除しました。",
		parser.English:  "🔄 All records have been deleted.",
	},
	"not_authorized": {
		parser.Japanese: "🚫 このコマンドを実行する権限がありません。",
		parser.English:  "🚫 Access denied. Please contact the administrator.",
	},
	"truncated": {
		parser.Japanese: "（{total}件中{shown}件を表示）",
		parser.English:  "(showing {shown} of {total})",
	},
	"help": {
		parser.Japanese: "📖 使えるコマンド:\n" +
			"• 記録追加 1000円 カテゴリ:食費 — 支出を記録\n" +
			"• APIキー追加 名前:GitHub サービス:github.com — キーを登録\n" +
			"• CPU使用率50%を記録 — メトリクスを記録\n" +
			"• 一覧 / 2024年の一覧 — 記録を表示\n" +
			"• 詳細 #12 — 記録の詳細\n" +
			"• 検索 食費 — 記録を検索\n" +
			"• 集計 / 2024年の集計 — 年間集計\n" +
			"• 記録更新 #12 金額:2000 — 記録を更新\n" +
			"• 記録削除 #12 — 記録を削除\n" +
			"• 言語 英語 — 応答の言語を変更\n" +
			"• ヘルプ — この一覧を表示",
		parser.English: "📖 Available commands:\n" +
			"• add record $10 category:food — record an expense\n" +
			"• add key name:GitHub service:github.com — save a key\n" +
			"• record CPU usage 50% — record a metric\n" +
			"• list / list 2024 — show records\n" +
			"• detail #12 — show one record\n" +
			"• search food — search records\n" +
			"• summary / summary 2024 — yearly totals\n" +
			"• update record #12 amount:20 — update a record\n" +
			"• delete record #12 — delete a record\n" +
			"• set language japanese — change reply language\n" +
			"• help — show this list",
	},
}

// slot labels used by the missing-entity prompt, localized.
var fieldLabels = map[string]map[parser.Language]string{
	"amount":   {parser.Japanese: "金額", parser.English: "amount"},
	"id":       {parser.Japanese: "記録ID", parser.English: "record id"},
	"keyword":  {parser.Japanese: "検索キーワード", parser.English: "search keyword"},
	"name":     {parser.Japanese: "名前", parser.English: "name"},
	"value":    {parser.Japanese: "数値", parser.English: "value"},
	"language": {parser.Japanese: "言語", parser.English: "language"},
	"fields":   {parser.Japanese: "更新内容", parser.English: "fields to update"},
}

var languageNames = map[parser.Language]map[parser.Language]string{
	parser.Japanese: {parser.Japanese: "日本語", parser.English: "Japanese"},
	parser.English:  {parser.Japanese: "英語", parser.English: "English"},
}

func template(key string, lang parser.Language) string {
	byLang, ok := templates[key]
	if !ok {
		return templates["error"][lang]
	}
	if s, ok := byLang[lang]; ok {
		return s
	}
	return byLang[parser.Japanese]
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Render turns a dispatch result into the reply string for the given
// language. It never fails; unmapped keys fall back to the generic error
// template.
func Render(res Result, lang parser.Language) string {
	switch res.Outcome {
	case OutcomeMissing:
		label, ok := fieldLabels[res.Missing]
		if !ok {
			label = map[parser.Language]string{parser.Japanese: res.Missing, parser.English: res.Missing}
		}
		return replace(template("missing", lang), "{field}", label[lang])
	case OutcomeError:
		return template("error", lang)
	case OutcomeNotFound:
		return replace(template("not_found", lang), "{id}", strconv.FormatInt(res.ID, 10))
	}

	switch res.Intent {
	case parser.IntentAddRecord:
		amount := ""
		if res.Record != nil && res.Record.Amount.Valid {
			amount = formatNumber(res.Record.Amount.Float64)
		}
		return replace(template("add_record.success", lang),
			"{id}", strconv.FormatInt(res.ID, 10),
			"{amount}", amount)
	case parser.IntentAddKey:
		name := ""
		if res.Record != nil {
			name = res.Record.Name
		}
		return replace(template("add_key.success", lang),
			"{id}", strconv.FormatInt(res.ID, 10),
			"{name}", name)
	case parser.IntentRecordMetric:
		metric := map[parser.Language]string{parser.Japanese: "数値", parser.English: "value"}[lang]
		value, unit := "", ""
		if res.Record != nil {
			if res.Record.Name != "" {
				metric = res.Record.Name
			}
			if res.Record.Amount.Valid {
				value = formatNumber(res.Record.Amount.Float64)
			}
			unit = res.Record.Unit
		}
		return replace(template("record_metric.success", lang),
			"{id}", strconv.FormatInt(res.ID, 10),
			"{metric}", metric,
			"{value}", value,
			"{unit}", unit)
	case parser.IntentListRecords:
		return renderList(res.Records, "list_records", lang)
	case parser.IntentSearchRecords:
		return renderList(res.Records, "search_records", lang)
	case parser.IntentGetRecord:
		return renderDetail(res.Record, lang)
	case parser.IntentSummary:
		if res.Stats == nil || res.Stats.Count == 0 {
			year := 0
			if res.Stats != nil {
				year = res.Stats.Year
			}
			return replace(template("summary.empty", lang), "{year}", strconv.Itoa(year))
		}
		return replace(template("summary.success", lang),
			"{year}", strconv.Itoa(res.Stats.Year),
			"{count}", strconv.Itoa(res.Stats.Count),
			"{total}", formatNumber(res.Stats.Total))
	case parser.IntentUpdateRecord:
		return replace(template("update_record.success", lang), "{id}", strconv.FormatInt(res.ID, 10))
	case parser.IntentDeleteRecord:
		return replace(template("delete_record.success", lang), "{id}", strconv.FormatInt(res.ID, 10))
	case parser.IntentSetLanguage:
		return replace(template("set_language.success", lang), "{language}", languageNames[res.SetLang][lang])
	case parser.IntentHelp:
		return template("help", lang)
	default:
		return template("unknown", lang)
	}
}

// Help returns the fixed bilingual usage reference for a language.
func Help(lang parser.Language) string {
	return template("help", lang)
}

// Unknown returns the fixed fallback string for unclassifiable input.
func Unknown(lang parser.Language) string {
	return template("unknown", lang)
}

// Welcome returns the greeting sent on /start.
func Welcome(lang parser.Language) string {
	return template("welcome", lang)
}

// ResetDone returns the confirmation for the admin reset command.
func ResetDone(lang parser.Language) string {
	return template("reset_done", lang)
}

// NotAuthorized returns the refusal sent to non-admin users of admin commands.
func NotAuthorized(lang parser.Language) string {
	return template("not_authorized", lang)
}

func renderList(records []database.Record, keyPrefix string, lang parser.Language) string {
	if len(records) == 0 {
		return template(keyPrefix+".empty", lang)
	}

	shown := records
	truncated := len(records) > listLimit
	if truncated {
		shown = records[:listLimit]
	}

	var b strings.Builder
	b.WriteString(template(keyPrefix+".header", lang))
	for _, r := range shown {
		b.WriteString("\n")
		b.WriteString(formatLine(r, lang))
	}
	if truncated {
		b.WriteString("\n")
		b.WriteString(replace(template("truncated", lang),
			"{shown}", strconv.Itoa(listLimit),
			"{total}", strconv.Itoa(len(records))))
	}
	return b.String()
}

func formatLine(r database.Record, lang parser.Language) string {
	var b strings.Builder
	b.WriteString("• #")
	b.WriteString(strconv.FormatInt(r.ID, 10))
	if r.Name != "" {
		b.WriteString(" ")
		b.WriteString(r.Name)
	}
	if r.Category != "" {
		b.WriteString(" [")
		b.WriteString(r.Category)
		b.WriteString("]")
	}
	if r.Amount.Valid {
		b.WriteString(" ")
		b.WriteString(formatNumber(r.Amount.Float64))
		switch {
		case r.Unit != "":
			b.WriteString(r.Unit)
		case r.Kind == database.KindExpense && lang == parser.Japanese:
			b.WriteString("円")
		case r.Kind == database.KindExpense:
			b.WriteString(" yen")
		}
	}
	return b.String()
}

func renderDetail(r *database.Record, lang parser.Language) string {
	if r == nil {
		return template("error", lang)
	}
	amount := "-"
	if r.Amount.Valid {
		amount = formatNumber(r.Amount.Float64) + r.Unit
	}
	return replace(template("get_record.success", lang),
		"{id}", strconv.FormatInt(r.ID, 10),
		"{kind}", r.Kind,
		"{name}", orDash(r.Name),
		"{category}", orDash(r.Category),
		"{amount}", amount,
		"{year}", strconv.Itoa(r.Year),
		"{note}", orDash(r.Note))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func replace(tmpl string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
