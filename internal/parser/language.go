// Package parser implements the bilingual message interpreter front end:
// language detection, typed entity extraction, and rule-based intent
// classification. All functions are pure and never return errors; absent
// or malformed input resolves to nil slots or the unknown intent.
package parser

import (
	"strings"
	"unicode"
)

// Language identifies the language used for pattern matching and responses.
type Language string

const (
	Japanese Language = "ja"
	English  Language = "en"
)

// IsValid returns true if the language is one of the supported values.
func (l Language) IsValid() bool {
	return l == Japanese || l == English
}

// englishKeywords are the english command words counted by DetectLanguage.
// Matching is per whitespace-separated word, not substring.
var englishKeywords = map[string]struct{}{
	"add": {}, "record": {}, "list": {}, "show": {}, "delete": {},
	"remove": {}, "search": {}, "find": {}, "summary": {}, "total": {},
	"update": {}, "help": {}, "key": {}, "set": {}, "language": {},
	"the": {}, "my": {}, "please": {}, "expense": {}, "spent": {},
}

// DetectLanguage classifies a message as Japanese or English by counting
// Japanese character-class runes against English keyword hits. Japanese
// wins ties, and fully ambiguous input (digits and symbols only) defaults
// to Japanese. The result is always valid; detection never fails.
func DetectLanguage(text string) Language {
	japanese := 0
	ascii := false
	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han):
			japanese++
		case r >= 0xFF01 && r <= 0xFF60: // fullwidth punctuation and forms
			japanese++
		case r < 128 && unicode.IsLetter(r):
			ascii = true
		}
	}

	english := 0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?:;#")
		if _, ok := englishKeywords[word]; ok {
			english++
		}
	}

	switch {
	case japanese > 0 && japanese >= english:
		return Japanese
	case english > 0:
		return English
	case ascii:
		return English
	default:
		return Japanese
	}
}
