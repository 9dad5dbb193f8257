package format

import (
	"testing"

	"github.com/fatih/color"
	"github.com/spiffcs/issuecost/internal/model"
)

func TestStripAnsi(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no ansi", "hello", "hello"},
		{"single color", "\x1b[31mred\x1b[0m", "red"},
		{"multiple colors", "\x1b[31mred\x1b[0m \x1b[32mgreen\x1b[0m", "red green"},
		{"complex", "\x1b[1;31;40mbold red on black\x1b[0m", "bold red on black"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripAnsi(tt.input); got != tt.expected {
				t.Errorf("StripAnsi(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty", "", 0},
		{"ascii", "hello", 5},
		{"with ansi", "\x1b[31mred\x1b[0m", 3},
		{"wide chars", "日本語", 6},
		{"mixed", "Hello, 世界!", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayWidth(tt.input); got != tt.expected {
				t.Errorf("DisplayWidth(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxWidth  int
		want      string
		wantWidth int
	}{
		{"fits", "short", 10, "short", 5},
		{"exact", "exactly10!", 10, "exactly10!", 10},
		{"cut", "Add support for exporting reports", 12, "Add suppo...", 12},
		{"wide chars", "日本語のタイトル", 9, "日本語...", 9},
		{"tiny width", "abcdef", 2, "ab", 2},
		{"zero width", "abc", 0, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, width := Truncate(tt.input, tt.maxWidth)
			if got != tt.want || width != tt.wantWidth {
				t.Errorf("Truncate(%q, %d) = (%q, %d), want (%q, %d)",
					tt.input, tt.maxWidth, got, width, tt.want, tt.wantWidth)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 2, 5); got != "ab   " {
		t.Errorf("PadRight() = %q", got)
	}
	if got := PadRight("abcdef", 6, 3); got != "abcdef" {
		t.Errorf("PadRight() should not cut, got %q", got)
	}
}

func TestSingleLine(t *testing.T) {
	if got := SingleLine("  one\ntwo\t\tthree  "); got != "one two three" {
		t.Errorf("SingleLine() = %q", got)
	}
}

func TestDollars(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "$0"},
		{200, "$200"},
		{1450, "$1,450"},
		{999999, "$999,999"},
		{1234567, "$1,234,567"},
		{-4500, "-$4,500"},
	}

	for _, tt := range tests {
		if got := Dollars(tt.in); got != tt.want {
			t.Errorf("Dollars(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(1, 3); got != 33 {
		t.Errorf("Percent(1, 3) = %d", got)
	}
	if got := Percent(5, 0); got != 0 {
		t.Errorf("Percent(5, 0) = %d", got)
	}
}

func TestColorTier(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	for _, tier := range model.AllTiers {
		if got := ColorTier(tier); got != tier.Display() {
			t.Errorf("ColorTier(%s) = %q, want %q", tier, got, tier.Display())
		}
	}
}

func TestMethodSuffix(t *testing.T) {
	if MethodSuffix(model.MethodHeuristic) != "*" {
		t.Error("expected marker for heuristic")
	}
	if MethodSuffix(model.MethodLLM) != "" {
		t.Error("expected no marker for llm")
	}
}
