package security

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trims whitespace", "  ответ  ", "ответ"},
		{"strips null bytes", "от\x00вет", "ответ"},
		{"keeps plain text", "Пётр I", "Пётр I"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeString(tt.input); got != tt.expected {
				t.Errorf("SanitizeString(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeStringCapsLength(t *testing.T) {
	long := strings.Repeat("a", 2000)
	if got := SanitizeString(long); len(got) != 1000 {
		t.Errorf("len = %d, want 1000", len(got))
	}
}

func TestSanitizeStringCapsMultibyteCleanly(t *testing.T) {
	long := strings.Repeat("я", 1500)

	got := SanitizeString(long)
	if !utf8.ValidString(got) {
		t.Fatal("truncation must never split a rune")
	}
	if n := utf8.RuneCountInString(got); n != 1000 {
		t.Errorf("rune count = %d, want 1000", n)
	}
}

func TestSanitizeUserTextStripsMarkup(t *testing.T) {
	got := SanitizeUserText(`<script>alert("x")</script>ответ`)
	if strings.Contains(got, "<script>") {
		t.Errorf("script tag survived: %q", got)
	}
	if !strings.Contains(got, "ответ") {
		t.Errorf("payload text lost: %q", got)
	}
}
