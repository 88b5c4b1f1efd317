package utils

import "testing"

func TestEscapeMarkdownV2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"a_b*c", `a\_b\*c`},
		{"1. пункт!", `1\. пункт\!`},
		{"(a-b)=c", `\(a\-b\)\=c`},
	}

	for _, tt := range tests {
		if got := EscapeMarkdownV2(tt.input); got != tt.expected {
			t.Errorf("EscapeMarkdownV2(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTruncateText(t *testing.T) {
	if got := TruncateText("привет", 3); got != "при" {
		t.Errorf("TruncateText = %q, want %q", got, "при")
	}
	if got := TruncateText("hi", 10); got != "hi" {
		t.Errorf("TruncateText = %q, want %q", got, "hi")
	}
}
