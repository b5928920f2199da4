package chart

import "math"

const (
	defaultPadding   = 4
	defaultRows      = 3
	defaultGridColor = "#334155"
	defaultFillAlpha = 0.35

	// headroom keeps the line off the top and bottom edges.
	headroomTop    = 1.1
	headroomBottom = 0.9
)

// Renderer draws a line+area chart of a Buffer onto a Surface. It holds a
// reference to the buffer but never mutates it; every Draw reads the surface
// size, the buffer contents and the theme accent afresh.
type Renderer struct {
	surface Surface
	buf     Buffer
	theme   ThemeSource

	Padding    float64
	Rows       int
	GridColor  string
	Background string
	FillAlpha  float64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPadding sets the inset, in pixels, around the plot area.
func WithPadding(p float64) Option {
	return func(r *Renderer) { r.Padding = p }
}

// WithRows sets the number of horizontal grid lines.
func WithRows(n int) Option {
	return func(r *Renderer) { r.Rows = n }
}

// WithBackground sets the color the fill tint is blended against.
func WithBackground(c string) Option {
	return func(r *Renderer) { r.Background = c }
}

// NewRenderer binds a renderer to one surface and one buffer.
func NewRenderer(s Surface, buf Buffer, theme ThemeSource, opts ...Option) *Renderer {
	r := &Renderer{
		surface:    s,
		buf:        buf,
		theme:      theme,
		Padding:    defaultPadding,
		Rows:       defaultRows,
		GridColor:  defaultGridColor,
		Background: defaultBackground,
		FillAlpha:  defaultFillAlpha,
	}
	for _, o := range opts {
		o(r)
	}
	if r.Rows < 0 {
		r.Rows = 0
	}
	return r
}

// Scale is the vertical mapping computed for one draw.
type Scale struct {
	Min, Max, Range float64
}

// ComputeScale returns the headroom-adjusted scale over the finite values.
// ok is false when fewer than two finite values are present.
func ComputeScale(values []float64) (s Scale, ok bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	n := 0
	for _, v := range values {
		if !finite(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		n++
	}
	if n < 2 {
		return Scale{}, false
	}
	s.Max = clampFinite(hi * headroomTop)
	s.Min = clampFinite(lo * headroomBottom)
	s.Range = s.Max - s.Min
	if s.Range <= 0 {
		s.Range = 1
	}
	return s, true
}

// Norm maps v onto the scale: 0 at Min, 1 at Max. When the range overflows
// float64 the operands are halved first, which keeps the result finite.
func (s Scale) Norm(v float64) float64 {
	if d := v - s.Min; !math.IsInf(d, 0) && !math.IsInf(s.Range, 0) {
		return d / s.Range
	}
	return (v/2 - s.Min/2) / (s.Max/2 - s.Min/2)
}

func clampFinite(v float64) float64 {
	return math.Max(-math.MaxFloat64, math.Min(v, math.MaxFloat64))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Draw repaints the surface. Degenerate surfaces and buffers with fewer than
// two samples leave the surface cleared.
func (r *Renderer) Draw() {
	w, h := r.surface.Size()
	if w <= 0 || h <= 0 {
		r.surface.Clear()
		return
	}
	values := r.buf.Values()
	if len(values) < 2 {
		r.surface.Clear()
		return
	}
	scale, ok := ComputeScale(values)
	if !ok {
		r.surface.Clear()
		return
	}

	fw, fh := float64(w), float64(h)
	pad := r.Padding

	maxPoints := max(r.buf.Cap(), len(values))
	pts := make([]Point, 0, len(values))
	for i, v := range values {
		if !finite(v) {
			continue
		}
		p := Point{
			X: pad + (fw-2*pad)*float64(i)/float64(maxPoints-1),
			Y: fh - pad - scale.Norm(v)*(fh-2*pad),
		}
		if !finite(p.X) || !finite(p.Y) {
			continue
		}
		pts = append(pts, p)
	}

	r.surface.Clear()
	if len(pts) < 2 {
		return
	}
	r.drawGrid(fw, fh, pad)

	accent := r.theme.Accent()
	r.surface.SetStroke(accent)
	for i := 1; i < len(pts); i++ {
		r.surface.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y)
	}

	base := fh - pad
	area := make([]Point, 0, len(pts)+2)
	area = append(area, pts...)
	area = append(area, Point{X: pts[len(pts)-1].X, Y: base}, Point{X: pts[0].X, Y: base})
	r.surface.SetFill(Tint(accent, r.Background, r.FillAlpha))
	r.surface.FillPolygon(area)
}

func (r *Renderer) drawGrid(w, h, pad float64) {
	if r.Rows == 0 {
		return
	}
	r.surface.SetStroke(r.GridColor)
	span := h - 2*pad
	for i := 0; i < r.Rows; i++ {
		y := pad + span/2
		if r.Rows > 1 {
			y = pad + span*float64(i)/float64(r.Rows-1)
		}
		r.surface.Line(pad, y, w-pad, y)
	}
}
