package parser

import (
	"regexp"
	"strings"
)

// Intent names the operation a message requests. The set is closed;
// classification always yields exactly one of these.
type Intent string

const (
	IntentAddRecord     Intent = "add_record"
	IntentAddKey        Intent = "add_key"
	IntentRecordMetric  Intent = "record_metric"
	IntentListRecords   Intent = "list_records"
	IntentGetRecord     Intent = "get_record"
	IntentSearchRecords Intent = "search_records"
	IntentSummary       Intent = "summary"
	IntentUpdateRecord  Intent = "update_record"
	IntentDeleteRecord  Intent = "delete_record"
	IntentSetLanguage   Intent = "set_language"
	IntentHelp          Intent = "help"
	IntentUnknown       Intent = "unknown"
)

// rule ties an intent to its per-language pattern set and the entity
// extractors to run when it matches. Patterns match against the
// normalized (lower-cased, trimmed) text; extraction runs against the
// original text so free-text captures keep their casing.
type rule struct {
	intent   Intent
	patterns map[Language][]*regexp.Regexp
	extract  func(text string) Entities
}

func compile(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		res[i] = regexp.MustCompile(expr)
	}
	return res
}

// rules is checked top to bottom and the first matching intent wins,
// even when a later rule would also match (記録 appears in both the
// metric and expense rules; declaration order is the tie-break and is
// pinned by tests). Do not reorder or replace with a map.
var rules = []rule{
	{
		intent: IntentHelp,
		patterns: map[Language][]*regexp.Regexp{
			Japanese: compile(`ヘルプ`, `使い方`, `^/?help`),
			English:  compile(`\bhelp\b`, `\busage\b`, `\bcommands\b`),
		},
		extract: func(string) Entities { return Entities{} },
	},
	{
		intent: IntentSetLanguage,
		patterns: map[Language][]*regexp.Regexp{
			Japanese: compile(`言語`),
			English:  compile(`\blanguage\b`, `\bset\s+lang\b`),
		},
		extract: func(text string) Entities {
			return Entities{Lang: ExtractLang(text)}
		},
	},
	{
		intent: IntentAddKey,
		patterns: map[Language][]*regexp.Regexp{
			Japanese: compile(`キー(?:を)?追加`, `キー(?:を)?登録`),
			English:  compile(`\badd\s+(?:api\s+)?key\b`, `\bregister\s+key\b`),
		},
		extract: func(text string) Entities {
			return Entities{
				Name:    ExtractName(text),
				Service: ExtractService(text),
				Note:    ExtractNote(text),
			}
		},
	},
	{
		intent: IntentRecordMetric,
		patterns: map[Language][]*regexp.Regexp{
			Japanese: compile(`使用率`, `メトリ`, `計測`),
			English:  compile(`\bmetric\b`, `\busage\b`, `\bmeasure(?:d|ment)?\b`),
		},
		extract: func(text string) Entities {
			value, unit := ExtractMetric(text)
			return Entities{
				Metric: ExtractMetricName(text),
				Value:  value,
				Unit:   unit,
			}
		},
	},
	{
		intent: IntentSummary,
		patterns: map[Language][]*regexp.Regexp{
			Japanese: compile(`集計`, `合計`, `サマリ`),
			English:  compile(`\bsummary\b`, `\btotal\b`),
		},
		extract: func(text string) Entities {
			return Entities{Year: ExtractYear(text)}
		},
	},
	{
		intent: IntentSearchRecords,
		patterns: map[Language][]*regexp.Regexp{
			Japanese: compile(`検索`, `探して`),
			English:  compile(`\bsearch\b`, `\bfind\b`),
		},
		extract: func(text string) Entities {
			return Entities{Keyword: ExtractKeyword(text)}
		},
	},
	{
		intent: IntentGetRecord,
		patterns: map[Language][]*regexp.Regexp{
			Japanese: compile(`詳細`),
			English:  compile(`\bdetails?\b`, `\bshow\s+#[0-9]+`),
		},
		extract: func(text string) Entities {
			return Entities{ID: ExtractID(text)}
		},
	},
	{
		intent: IntentUpdateRecord,
		patterns: map[Language][]*regexp.Regexp{
			Japanese: compile(`記録(?:を)?更新`, `更新\s*#`),
			English:  compile(`\bupdate\s+record\b`, `\bupdate\s+#[0-9]+`),
		},
		extract: func(text string) Entities {
			return Entities{
				ID:       ExtractID(text),
				Amount:   ExtractAmount(text),
				Name:     ExtractName(text),
				Category: ExtractCategory(text),
			}
		},
	},
	{
		intent: IntentDeleteRecord,
		patterns: map[Language][]*regexp.Regexp{
			Japanese: compile(`記録(?:を)?削除`, `削除\s*#`),
			English:  compile(`\bdelete\s+record\b`, `\bremove\s+record\b`, `\bdelete\s+#[0-9]+`),
		},
		extract: func(text string) Entities {
			return Entities{ID: ExtractID(text)}
		},
	},
	{
		intent: IntentListRecords,
		patterns: map[Language][]*regexp.Regexp{
			Japanese: compile(`一覧`, `リスト`, `記録.*(?:表示|見せて)`),
			English:  compile(`\blist\b`, `\bshow\s+records\b`),
		},
		extract: func(text string) Entities {
			return Entities{
				Year:     ExtractYear(text),
				Category: ExtractCategory(text),
				Kind:     ExtractKind(text),
			}
		},
	},
	{
		intent: IntentAddRecord,
		patterns: map[Language][]*regexp.Regexp{
			Japanese: compile(`記録(?:を)?追加`, `支出`, `経費`, `(?:円|¥|￥).*(?:を)?記録`, `(?:を)?記録$`),
			English:  compile(`\badd\s+record\b`, `\bexpense\b`, `\bspent\b`, `\brecord\s`),
		},
		extract: func(text string) Entities {
			return Entities{
				Amount:   ExtractAmount(text),
				Category: ExtractCategory(text),
				Note:     ExtractNote(text),
				Year:     ExtractYear(text),
				Date:     ExtractDate(text),
			}
		},
	},
}

// actionFragments are intent keywords that, appearing without their full
// pattern, steer the fallback toward help instead of guessing a
// destructive action. 削除 123 must never delete record 123.
var actionFragments = []string{"削除", "更新", "追加", "delete", "remove", "update", "add"}

// Classify matches the message against the rule table for the given
// language and returns the first matching intent with its extracted
// entities. When no rule matches: empty input is unknown, a
// currency-marked amount infers add_record, a bare action keyword yields
// help, and anything else is unknown.
func Classify(text string, lang Language) (Intent, Entities) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return IntentUnknown, Entities{}
	}

	for _, r := range rules {
		for _, re := range r.patterns[lang] {
			if re.MatchString(normalized) {
				return r.intent, r.extract(text)
			}
		}
	}

	if amount := ExtractAmount(text); amount != nil {
		return IntentAddRecord, Entities{
			Amount:   amount,
			Category: ExtractCategory(text),
			Note:     ExtractNote(text),
			Year:     ExtractYear(text),
		}
	}

	for _, fragment := range actionFragments {
		if strings.Contains(normalized, fragment) {
			return IntentHelp, Entities{}
		}
	}

	return IntentUnknown, Entities{}
}
