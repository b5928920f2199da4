package chart

import "github.com/jtsunne/opsdash/internal/model"

// Chart binds one Series to one BrailleSurface through a Renderer. Push and
// Clear redraw immediately; Resize is the hook callers invoke when the
// available terminal area changes.
type Chart struct {
	series   *model.Series
	surface  *BrailleSurface
	renderer *Renderer
}

// New creates a Chart over series, drawn on a cols x rows cell surface.
func New(series *model.Series, cols, rows int, theme ThemeSource, opts ...Option) *Chart {
	surface := NewBrailleSurface(cols, rows)
	c := &Chart{
		series:   series,
		surface:  surface,
		renderer: NewRenderer(surface, series, theme, opts...),
	}
	c.renderer.Draw()
	return c
}

// Push appends v to the series and redraws.
func (c *Chart) Push(v float64) {
	c.series.Push(v)
	c.renderer.Draw()
}

// Clear empties the series and redraws.
func (c *Chart) Clear() {
	c.series.Clear()
	c.renderer.Draw()
}

// Values returns the buffered samples, oldest first.
func (c *Chart) Values() []float64 {
	return c.series.Values()
}

// Resize changes the drawing area and redraws.
func (c *Chart) Resize(cols, rows int) {
	if cw, ch := c.surface.Cells(); cw == cols && ch == rows {
		c.renderer.Draw()
		return
	}
	c.surface.Resize(cols, rows)
	c.renderer.Draw()
}

// Redraw repaints without changing data, e.g. after an accent change.
func (c *Chart) Redraw() {
	c.renderer.Draw()
}

// View returns the last drawn frame.
func (c *Chart) View() string {
	return c.surface.String()
}

// RenderText draws values into a fresh cols x rows surface and returns the
// frame. capacity fixes the horizontal spacing the same way a live chart's
// window does.
func RenderText(values []float64, capacity, cols, rows int, theme ThemeSource, opts ...Option) string {
	series := model.NewSeriesFrom(capacity, values)
	surface := NewBrailleSurface(cols, rows)
	NewRenderer(surface, series, theme, opts...).Draw()
	return surface.String()
}
