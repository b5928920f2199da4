package chart

import "sync"

// Point is a position on a Surface in pixel space; the origin is the
// top-left corner and y grows downwards.
type Point struct {
	X, Y float64
}

// Surface is an immediate-mode drawing target. Its size is queried on every
// draw and may change between draws.
type Surface interface {
	// Size returns the current pixel dimensions.
	Size() (w, h int)
	Clear()
	SetStroke(color string)
	SetFill(color string)
	Line(x0, y0, x1, y1 float64)
	FillPolygon(pts []Point)
}

// ThemeSource exposes the live accent color as a "#rrggbb" string.
type ThemeSource interface {
	Accent() string
}

// StaticTheme is a ThemeSource with a fixed accent.
type StaticTheme string

// Accent implements ThemeSource.
func (t StaticTheme) Accent() string { return string(t) }

// LiveTheme is a ThemeSource whose accent can change at runtime. It is safe
// for concurrent use.
type LiveTheme struct {
	mu     sync.RWMutex
	accent string
}

func NewLiveTheme(accent string) *LiveTheme {
	return &LiveTheme{accent: accent}
}

// Accent implements ThemeSource.
func (t *LiveTheme) Accent() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.accent
}

// Set replaces the accent. Charts pick it up on their next draw.
func (t *LiveTheme) Set(accent string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accent = accent
}

// Buffer is the read side of a rolling window.
type Buffer interface {
	Values() []float64
	Cap() int
}
