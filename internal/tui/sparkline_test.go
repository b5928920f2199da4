package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// testColor is a neutral color used for sparkline tests.
var testColor = lipgloss.Color("#ffffff")

func TestRenderSparkline_Empty(t *testing.T) {
	result := stripANSI(RenderSparkline(nil, 10, testColor))
	if result != strings.Repeat(" ", 10) {
		t.Errorf("expected 10 spaces, got %q", result)
	}
}

func TestRenderSparkline_Flat(t *testing.T) {
	values := []float64{42, 42, 42, 42, 42}
	result := []rune(stripANSI(RenderSparkline(values, 5, testColor)))
	if len(result) != 5 {
		t.Fatalf("expected 5 runes, got %d: %q", len(result), string(result))
	}
	for i, ch := range result {
		if ch != '▁' {
			t.Errorf("index %d: expected '▁', got %q", i, ch)
		}
	}
}

func TestRenderSparkline_Ascending(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	result := []rune(stripANSI(RenderSparkline(values, 8, testColor)))

	if len(result) != 8 {
		t.Fatalf("expected 8 runes, got %d: %q", len(result), string(result))
	}
	for i := 1; i < len(result); i++ {
		if result[i] < result[i-1] {
			t.Errorf("index %d: expected non-decreasing, got %q < %q", i, result[i], result[i-1])
		}
	}
	if result[0] != '▁' {
		t.Errorf("first char: expected '▁', got %q", result[0])
	}
	if result[7] != '█' {
		t.Errorf("last char: expected '█', got %q", result[7])
	}
}

func TestRenderSparkline_ScalesToWindowRange(t *testing.T) {
	// A small walk far from zero still spans the full height.
	values := []float64{50.1, 50.5, 50.3}
	result := []rune(stripANSI(RenderSparkline(values, 3, testColor)))
	if result[0] != '▁' || result[1] != '█' {
		t.Errorf("expected floor then peak, got %q", string(result))
	}
}

func TestRenderSparkline_TruncatesLeft(t *testing.T) {
	// 20 values; width=10 → only the last 10 values are used.
	values := make([]float64, 20)
	for i := range values {
		values[i] = float64(i)
	}
	result := []rune(stripANSI(RenderSparkline(values, 10, testColor)))

	if len(result) != 10 {
		t.Fatalf("expected 10 runes, got %d", len(result))
	}
	if result[0] != '▁' {
		t.Errorf("expected first char '▁', got %q", result[0])
	}
	if result[9] != '█' {
		t.Errorf("expected last char '█', got %q", result[9])
	}
}

func TestRenderSparkline_LeftPads(t *testing.T) {
	result := []rune(stripANSI(RenderSparkline([]float64{1, 2}, 5, testColor)))
	if len(result) != 5 {
		t.Fatalf("expected 5 runes, got %d", len(result))
	}
	for i := 0; i < 3; i++ {
		if result[i] != ' ' {
			t.Errorf("index %d: expected space, got %q", i, result[i])
		}
	}
	if result[4] != '█' {
		t.Errorf("index 4: expected '█', got %q", result[4])
	}
}

func TestRenderSparkline_ZeroWidth(t *testing.T) {
	result := RenderSparkline([]float64{1, 2, 3}, 0, testColor)
	if result != "" {
		t.Errorf("expected empty string for width=0, got %q", result)
	}
}

func TestRenderMiniBar(t *testing.T) {
	cases := []struct {
		pct   float64
		width int
		want  string
	}{
		{0, 4, "░░░░"},
		{50, 4, "██░░"},
		{100, 4, "████"},
		{150, 4, "████"},
		{-5, 4, "░░░░"},
		{50, 0, ""},
	}
	for _, tc := range cases {
		if got := renderMiniBar(tc.pct, tc.width); got != tc.want {
			t.Errorf("renderMiniBar(%v, %d) = %q, want %q", tc.pct, tc.width, got, tc.want)
		}
	}
}
