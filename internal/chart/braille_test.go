package chart

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtsunne/opsdash/internal/model"
)

func TestBrailleSurface_Size(t *testing.T) {
	b := NewBrailleSurface(10, 3)
	w, h := b.Size()
	assert.Equal(t, 20, w)
	assert.Equal(t, 12, h)

	b.Resize(0, 3)
	w, h = b.Size()
	assert.Equal(t, 0, w)
	assert.Equal(t, 12, h)
}

func TestBrailleSurface_HorizontalLine(t *testing.T) {
	b := NewBrailleSurface(3, 1)
	b.Line(0, 0, 5, 0)
	for px := 0; px < 6; px++ {
		assert.True(t, b.Pixel(px, 0), "px=%d", px)
		assert.False(t, b.Pixel(px, 1), "px=%d", px)
	}
	// top row of both columns in every cell: dots 1 and 4
	assert.Equal(t, "⠉⠉⠉", stripANSI(b.String()))
}

func TestBrailleSurface_OutOfBoundsIgnored(t *testing.T) {
	b := NewBrailleSurface(2, 1)
	assert.NotPanics(t, func() {
		b.Line(-10, -10, 50, 50)
		b.FillPolygon([]Point{{-5, -5}, {100, -5}, {100, 100}, {-5, 100}})
	})
}

func TestBrailleSurface_LineNonFiniteDrawsNothing(t *testing.T) {
	b := NewBrailleSurface(4, 2)
	b.Line(0, 0, math.NaN(), 3)
	b.Line(math.Inf(-1), 1, 3, 1)
	for py := 0; py < 8; py++ {
		for px := 0; px < 8; px++ {
			assert.False(t, b.Pixel(px, py), "px=%d py=%d", px, py)
		}
	}
}

func TestBrailleSurface_LineClippedToSurface(t *testing.T) {
	b := NewBrailleSurface(4, 2) // 8x8 pixels
	b.Line(-1e300, 3, 1e300, 3)
	for px := 0; px < 8; px++ {
		assert.True(t, b.Pixel(px, 3), "px=%d", px)
	}
	assert.False(t, b.Pixel(0, 2))
}

func TestBrailleSurface_FillRectangle(t *testing.T) {
	b := NewBrailleSurface(4, 2) // 8x8 pixels
	b.FillPolygon([]Point{{2, 2}, {6, 2}, {6, 6}, {2, 6}})

	for py := 0; py < 8; py++ {
		for px := 0; px < 8; px++ {
			inside := px >= 2 && px < 6 && py >= 2 && py < 6
			assert.Equal(t, inside, b.Pixel(px, py), "px=%d py=%d", px, py)
		}
	}
}

func TestBrailleSurface_ClearResetsPixels(t *testing.T) {
	b := NewBrailleSurface(2, 1)
	b.Line(0, 0, 3, 3)
	b.Clear()
	assert.Equal(t, "  ", stripANSI(b.String()))
}

func TestBrailleSurface_EmptyRendersSpaces(t *testing.T) {
	b := NewBrailleSurface(4, 2)
	assert.Equal(t, "    \n    ", stripANSI(b.String()))
}

func TestChart_PushRedraws(t *testing.T) {
	c := New(model.NewSeries(10), 10, 4, StaticTheme("#3b82f6"))
	empty := c.View()
	assert.Equal(t, strings.Repeat(" ", 10), strings.Split(stripANSI(empty), "\n")[0])

	c.Push(1)
	c.Push(5)
	assert.NotEqual(t, stripANSI(empty), stripANSI(c.View()))
	assert.Equal(t, []float64{1, 5}, c.Values())

	c.Clear()
	assert.Equal(t, stripANSI(empty), stripANSI(c.View()))
}

func TestChart_ResizeRedrawsAtNewSize(t *testing.T) {
	c := New(model.NewSeriesFrom(10, []float64{1, 2, 3}), 10, 4, StaticTheme("#3b82f6"))
	c.Resize(20, 6)

	lines := strings.Split(stripANSI(c.View()), "\n")
	require.Len(t, lines, 6)
	for _, l := range lines {
		assert.Equal(t, 20, len([]rune(l)))
	}
}

func TestChart_FillsAreaUnderLine(t *testing.T) {
	c := New(model.NewSeriesFrom(2, []float64{10, 10}), 10, 4, StaticTheme("#3b82f6"), WithRows(0), WithPadding(0))
	view := stripANSI(c.View())
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 4)
	// Flat series at 10 maps to y = h - (10-9)/2·h, half way up: bottom rows are filled
	assert.NotContains(t, lines[3], " ")
}

func TestRenderText_Deterministic(t *testing.T) {
	vals := []float64{4, 8, 15, 16, 23, 42}
	a := RenderText(vals, 60, 30, 5, StaticTheme("#3b82f6"))
	b := RenderText(vals, 60, 30, 5, StaticTheme("#3b82f6"))
	assert.Equal(t, a, b)
	assert.Len(t, strings.Split(stripANSI(a), "\n"), 5)
}

// stripANSI removes ANSI escape sequences for plain-text content assertions.
func stripANSI(s string) string {
	var out strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if r >= 0x40 && r <= 0x7E && r != '[' {
				inEscape = false
			}
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
