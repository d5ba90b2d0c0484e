package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Entities holds the typed slots extracted from a message. A nil field
// means the slot was absent from the message; handlers must never treat
// absence and an empty value as the same thing.
type Entities struct {
	Name     *string
	Service  *string
	Category *string
	Note     *string
	Keyword  *string
	Metric   *string
	Unit     *string
	Kind     *string
	Date     *string
	Amount   *float64
	Value    *float64
	Year     *int
	ID       *int64
	Lang     *Language
}

// Each extractor below tries its pattern list in declared order and stops
// at the first regex that matches, even if a later one would also match.
// The ordering is load-bearing; reordering changes which capture wins for
// messages matched by more than one pattern.

var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:金額|amount)\s*[:：=]\s*[¥￥$]?\s*([0-9][0-9,，]*(?:\.[0-9]+)?)`),
	regexp.MustCompile(`([0-9][0-9,，]*(?:\.[0-9]+)?)\s*円`),
	regexp.MustCompile(`[¥￥$]\s*([0-9][0-9,，]*(?:\.[0-9]+)?)`),
	regexp.MustCompile(`(?i)\b([0-9][0-9,，]*(?:\.[0-9]+)?)\s*(?:yen|jpy|usd|dollars?)\b`),
}

// ExtractAmount returns a monetary amount found in the text, with thousands
// separators and currency markers stripped. A bare number without any
// currency marker or amount label is not an amount.
func ExtractAmount(text string) *float64 {
	for _, re := range amountPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.NewReplacer(",", "", "，", "").Replace(m[1])
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil
		}
		return &v
	}
	return nil
}

var yearPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(20[0-9]{2})年`),
	regexp.MustCompile(`(?i)(?:year|年度)\s*[:：=]?\s*(20[0-9]{2})`),
	regexp.MustCompile(`\b(20[0-9]{2})\b`),
}

// ExtractYear returns a four-digit year (2000-2099) found in the text.
func ExtractYear(text string) *int {
	for _, re := range yearPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		return &v
	}
	return nil
}

var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`#([0-9]+)`),
	regexp.MustCompile(`(?i)\bid\s*[:：=]\s*([0-9]+)`),
	regexp.MustCompile(`([0-9]+)\s*(?:番|件目)`),
	regexp.MustCompile(`(?i)\b(?:record|no\.?)\s*([0-9]+)\b`),
	regexp.MustCompile(`(?:^|\s)([0-9]+)\s*$`),
}

// ExtractID returns a record identifier (#123, ID: 123, trailing bare
// number) found in the text.
func ExtractID(text string) *int64 {
	for _, re := range idPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil
		}
		return &v
	}
	return nil
}

var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:名前|なまえ)\s*[:：]\s*(\S+)`),
		regexp.MustCompile(`(?i)\bname\s*[:：=]\s*(\S+)`),
	}
	servicePatterns = []*regexp.Regexp{
		regexp.MustCompile(`サービス\s*[:：]\s*(\S+)`),
		regexp.MustCompile(`(?i)\bservice\s*[:：=]\s*(\S+)`),
	}
	categoryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:カテゴリ|分類)\s*[:：]\s*(\S+)`),
		regexp.MustCompile(`(?i)\bcategory\s*[:：=]\s*(\S+)`),
	}
	notePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:メモ|内容|備考)\s*[:：]\s*(.+)$`),
		regexp.MustCompile(`(?i)\b(?:note|memo|desc(?:ription)?)\s*[:：=]\s*(.+)$`),
	}
	keywordPatterns = []*regexp.Regexp{
		regexp.MustCompile(`検索\s*[:：]\s*(\S.*)$`),
		regexp.MustCompile(`(\S.*?)\s*を検索`),
		regexp.MustCompile(`検索\s+(\S.*)$`),
		regexp.MustCompile(`(?i)\bsearch\s+(?:for\s+)?(\S.*)$`),
		regexp.MustCompile(`(?i)\bfind\s+(\S.*)$`),
	}
)

func firstString(text string, patterns []*regexp.Regexp) *string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			s := strings.TrimSpace(m[1])
			if s == "" {
				return nil
			}
			return &s
		}
	}
	return nil
}

// ExtractName returns a labeled name slot (名前:GitHub, name=GitHub).
func ExtractName(text string) *string { return firstString(text, namePatterns) }

// ExtractService returns a labeled service slot (サービス:github.com).
func ExtractService(text string) *string { return firstString(text, servicePatterns) }

// ExtractCategory returns a labeled category slot (カテゴリ:食費).
func ExtractCategory(text string) *string { return firstString(text, categoryPatterns) }

// ExtractNote returns a labeled free-text note, captured to end of line.
func ExtractNote(text string) *string { return firstString(text, notePatterns) }

// ExtractKeyword returns the free-text search keyword.
func ExtractKeyword(text string) *string { return firstString(text, keywordPatterns) }

// kindPatterns map record-family words to their stored kind value;
// checked in declared order.
var kindPatterns = []struct {
	re   *regexp.Regexp
	kind string
}{
	{regexp.MustCompile(`キー|鍵`), "key"},
	{regexp.MustCompile(`メトリ`), "metric"},
	{regexp.MustCompile(`支出|経費`), "expense"},
	{regexp.MustCompile(`(?i)\bkeys?\b`), "key"},
	{regexp.MustCompile(`(?i)\bmetrics?\b`), "metric"},
	{regexp.MustCompile(`(?i)\bexpenses?\b`), "expense"},
}

// ExtractKind returns a record family named in the text (キー一覧,
// list expenses), used to filter list output.
func ExtractKind(text string) *string {
	for _, p := range kindPatterns {
		if p.re.MatchString(text) {
			k := p.kind
			return &k
		}
	}
	return nil
}

var (
	metricValuePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*(%|％|ms|mb|gb|tb|℃)`),
		regexp.MustCompile(`(?i)(?:value|値)\s*[:：=]\s*([0-9]+(?:\.[0-9]+)?)\s*(\S*)`),
	}
	metricNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`([A-Za-z][A-Za-z0-9_]*)使用率`),
		regexp.MustCompile(`(メモリ|ディスク)使用率`),
		regexp.MustCompile(`(?i)\b(cpu|memory|disk|network|latency)\b`),
	}
)

// ExtractMetric returns a measurement value and its unit (50%, 120ms).
// The unit may be absent when the value came from a labeled form.
func ExtractMetric(text string) (*float64, *string) {
	for _, re := range metricValuePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, nil
		}
		unit := strings.TrimSpace(m[2])
		if unit == "％" {
			unit = "%"
		}
		if unit == "" {
			return &v, nil
		}
		return &v, &unit
	}
	return nil, nil
}

// ExtractMetricName returns the measured subject (CPU, メモリ) if one is
// recognizable; metrics without a recognizable name are still recordable.
func ExtractMetricName(text string) *string {
	return firstString(text, metricNamePatterns)
}

var (
	explicitDatePattern = regexp.MustCompile(`([0-9]{4}-[0-9]{2}-[0-9]{2}(?:\s+[0-9]{2}:[0-9]{2})?)`)
	langJaPattern       = regexp.MustCompile(`\bja\b`)
	langEnPattern       = regexp.MustCompile(`\ben\b`)
)

// ExtractDate returns a date string for 今日/today, 明日/tomorrow, or an
// explicit YYYY-MM-DD [HH:MM] form.
func ExtractDate(text string) *string {
	lower := strings.ToLower(text)
	now := time.Now()
	switch {
	case strings.Contains(text, "今日") || strings.Contains(lower, "today"):
		s := now.Format("2006-01-02")
		return &s
	case strings.Contains(text, "明日") || strings.Contains(lower, "tomorrow"):
		s := now.AddDate(0, 0, 1).Format("2006-01-02")
		return &s
	}
	if m := explicitDatePattern.FindStringSubmatch(text); m != nil {
		return &m[1]
	}
	return nil
}

// ExtractLang returns a language named in the text (日本語, english, ja).
func ExtractLang(text string) *Language {
	lower := strings.ToLower(text)
	jp := Japanese
	en := English
	switch {
	case strings.Contains(text, "日本語") || strings.Contains(lower, "japanese"):
		return &jp
	case strings.Contains(text, "英語") || strings.Contains(lower, "english"):
		return &en
	case langJaPattern.MatchString(lower):
		return &jp
	case langEnPattern.MatchString(lower):
		return &en
	}
	return nil
}
