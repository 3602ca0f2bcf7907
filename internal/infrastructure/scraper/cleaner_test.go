package scraper

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapse spaces", "Hello    World", "Hello World"},
		{"tabs and carriage returns", "Hello\t\r World", "Hello World"},
		{"single newline becomes paragraph break", "First\nSecond", "First\n\nSecond"},
		{"newline run with spaces", "First  \n \n\n   Second", "First\n\nSecond"},
		{"trim", "  \n Hello \n ", "Hello"},
		{"non-breaking space", "Hello\u00a0\u00a0World", "Hello World"},
		{"empty", "", ""},
		{"only whitespace", " \t\n\r ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestClean_Properties(t *testing.T) {
	inputs := []string{
		"a  b\t\tc\n\n\n\nd",
		"\n\n  leading and trailing  \n\n",
		"mixed \r\n windows \r\n\r\n line endings",
		"para one.\n \t \npara two.\n\n\n\n\n\npara three.",
		strings.Repeat("word \n ", 50),
	}

	for _, input := range inputs {
		got := Clean(input)

		if strings.Contains(got, "  ") {
			t.Errorf("Clean(%q) contains double spaces: %q", input, got)
		}
		if strings.Contains(got, "\n\n\n") {
			t.Errorf("Clean(%q) contains more than two consecutive newlines: %q", input, got)
		}
		if got != strings.TrimSpace(got) {
			t.Errorf("Clean(%q) has leading or trailing whitespace: %q", input, got)
		}
		if again := Clean(got); again != got {
			t.Errorf("Clean is not idempotent: %q -> %q", got, again)
		}
	}
}
