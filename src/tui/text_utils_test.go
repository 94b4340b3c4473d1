package tui

import (
	"strings"
	"testing"
)

func TestCleanLogText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "ansi color codes",
			input:    "\x1b[31mnil pointer\x1b[0m dereference",
			expected: "nil pointer dereference",
		},
		{
			name:     "newlines flattened",
			input:    "line one\nline two",
			expected: "line one line two",
		},
		{
			name:     "control characters removed",
			input:    "before\x07after",
			expected: "beforeafter",
		},
		{
			name:     "plain text untouched",
			input:    "nothing special",
			expected: "nothing special",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanLogText(tt.input); got != tt.expected {
				t.Errorf("CleanLogText(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		ellipsis bool
		expected string
	}{
		{name: "fits", input: "short", maxLen: 10, ellipsis: true, expected: "short"},
		{name: "truncated with ellipsis", input: "a very long message", maxLen: 10, ellipsis: true, expected: "a very ..."},
		{name: "truncated without ellipsis", input: "a very long message", maxLen: 6, ellipsis: false, expected: "a very"},
		{name: "zero width", input: "anything", maxLen: 0, ellipsis: true, expected: ""},
		{name: "wide runes", input: "日本語テキスト", maxLen: 6, ellipsis: false, expected: "日本語"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxLen, tt.ellipsis); got != tt.expected {
				t.Errorf("Truncate(%q, %d, %v) = %q, expected %q", tt.input, tt.maxLen, tt.ellipsis, got, tt.expected)
			}
		})
	}
}

func TestTruncateAndPad(t *testing.T) {
	got := TruncateAndPad("ab", 5, false)
	if got != "ab   " {
		t.Errorf("TruncateAndPad short = %q", got)
	}
	if w := VisualWidth(TruncateAndPad("a much longer string", 5, false)); w != 5 {
		t.Errorf("padded width = %d, expected 5", w)
	}
}

func TestWrap(t *testing.T) {
	got := Wrap("the quick brown fox jumps", 10)
	for i, line := range strings.Split(got, "\n") {
		if VisualWidth(line) > 10 {
			t.Errorf("line %d exceeds width: %q", i, line)
		}
	}
	if !strings.Contains(got, "\n") {
		t.Errorf("expected wrapping, got %q", got)
	}

	if got := Wrap("short", 10); got != "short" {
		t.Errorf("Wrap(short) = %q", got)
	}

	longWord := Wrap("abcdefghijklmnop", 5)
	for i, line := range strings.Split(longWord, "\n") {
		if VisualWidth(line) > 5 {
			t.Errorf("long-word line %d exceeds width: %q", i, line)
		}
	}
}
