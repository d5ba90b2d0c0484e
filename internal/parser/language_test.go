package parser_test

import (
	"testing"

	"github.com/edgard/kirokubot/internal/parser"
)

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected parser.Language
	}{
		{
			name:     "Japanese hiragana",
			input:    "こんにちは",
			expected: parser.Japanese,
		},
		{
			name:     "Japanese command with kanji",
			input:    "記録追加 1000円",
			expected: parser.Japanese,
		},
		{
			name:     "English command keywords",
			input:    "add record 1000 yen",
			expected: parser.English,
		},
		{
			name:     "English without keywords",
			input:    "Hello there!",
			expected: parser.English,
		},
		{
			name:     "Mixed leans Japanese on tie",
			input:    "delete 記録",
			expected: parser.Japanese,
		},
		{
			name:     "ASCII word embedded in Japanese",
			input:    "APIキー追加 名前:GitHub",
			expected: parser.Japanese,
		},
		{
			name:     "Digits only defaults to Japanese",
			input:    "123",
			expected: parser.Japanese,
		},
		{
			name:     "Empty defaults to Japanese",
			input:    "",
			expected: parser.Japanese,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := parser.DetectLanguage(tt.input)
			if result != tt.expected {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
