package chart

import (
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// brailleBits maps a pixel offset inside a 2x4 cell to its braille dot bit,
// indexed [y][x].
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// BrailleSurface is a terminal Surface: every character cell holds a 2x4
// grid of braille dots, so a cols x rows cell area is a (2·cols) x (4·rows)
// pixel canvas. Stroked and filled pixels are kept on separate layers; a
// cell with any stroked dot takes the stroke color.
type BrailleSurface struct {
	cols, rows int
	stroke     string
	fill       string

	strokeBits  []uint8
	fillBits    []uint8
	strokeColor []string
	fillColor   []string
}

// NewBrailleSurface allocates a surface of cols x rows character cells.
func NewBrailleSurface(cols, rows int) *BrailleSurface {
	b := &BrailleSurface{}
	b.Resize(cols, rows)
	return b
}

// Resize changes the cell dimensions and clears the surface.
func (b *BrailleSurface) Resize(cols, rows int) {
	b.cols = max(cols, 0)
	b.rows = max(rows, 0)
	n := b.cols * b.rows
	b.strokeBits = make([]uint8, n)
	b.fillBits = make([]uint8, n)
	b.strokeColor = make([]string, n)
	b.fillColor = make([]string, n)
}

// Cells returns the character-cell dimensions.
func (b *BrailleSurface) Cells() (cols, rows int) {
	return b.cols, b.rows
}

// Size implements Surface.
func (b *BrailleSurface) Size() (w, h int) {
	return b.cols * 2, b.rows * 4
}

// Clear implements Surface.
func (b *BrailleSurface) Clear() {
	clear(b.strokeBits)
	clear(b.fillBits)
	clear(b.strokeColor)
	clear(b.fillColor)
}

// SetStroke implements Surface.
func (b *BrailleSurface) SetStroke(color string) { b.stroke = color }

// SetFill implements Surface.
func (b *BrailleSurface) SetFill(color string) { b.fill = color }

func (b *BrailleSurface) set(px, py int, stroke bool) {
	w, h := b.Size()
	if px < 0 || py < 0 || px >= w || py >= h {
		return
	}
	idx := (py/4)*b.cols + px/2
	bit := brailleBits[py%4][px%2]
	if stroke {
		b.strokeBits[idx] |= bit
		b.strokeColor[idx] = b.stroke
		return
	}
	b.fillBits[idx] |= bit
	b.fillColor[idx] = b.fill
}

// Pixel reports whether the pixel at (px, py) is set on either layer.
func (b *BrailleSurface) Pixel(px, py int) bool {
	w, h := b.Size()
	if px < 0 || py < 0 || px >= w || py >= h {
		return false
	}
	idx := (py/4)*b.cols + px/2
	bit := brailleBits[py%4][px%2]
	return (b.strokeBits[idx]|b.fillBits[idx])&bit != 0
}

// Line implements Surface using Bresenham's algorithm on rounded endpoints.
// The segment is clipped to the surface first; non-finite endpoints draw
// nothing.
func (b *BrailleSurface) Line(x0, y0, x1, y1 float64) {
	w, h := b.Size()
	x0, y0, x1, y1, ok := clipLine(x0, y0, x1, y1, float64(w), float64(h))
	if !ok {
		return
	}
	ax, ay := int(math.Round(x0)), int(math.Round(y0))
	bx, by := int(math.Round(x1)), int(math.Round(y1))

	dx := abs(bx - ax)
	dy := -abs(by - ay)
	sx, sy := 1, 1
	if ax > bx {
		sx = -1
	}
	if ay > by {
		sy = -1
	}
	e := dx + dy
	for {
		b.set(ax, ay, true)
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			ax += sx
		}
		if e2 <= dx {
			e += dx
			ay += sy
		}
	}
}

// FillPolygon implements Surface with an even-odd scanline fill sampled at
// pixel centers.
func (b *BrailleSurface) FillPolygon(pts []Point) {
	if len(pts) < 3 {
		return
	}
	w, h := b.Size()
	xs := make([]float64, 0, len(pts))
	for py := 0; py < h; py++ {
		yc := float64(py) + 0.5
		xs = xs[:0]
		for i := range pts {
			a, c := pts[i], pts[(i+1)%len(pts)]
			if (a.Y <= yc && yc < c.Y) || (c.Y <= yc && yc < a.Y) {
				xs = append(xs, a.X+(yc-a.Y)*(c.X-a.X)/(c.Y-a.Y))
			}
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			from := max(int(math.Ceil(xs[i]-0.5)), 0)
			to := min(int(math.Floor(xs[i+1]-0.5)), w-1)
			for px := from; px <= to; px++ {
				b.set(px, py, false)
			}
		}
	}
}

// String renders the surface as rows of braille characters, each run of
// equally colored cells wrapped in one lipgloss style.
func (b *BrailleSurface) String() string {
	lines := make([]string, b.rows)
	for row := 0; row < b.rows; row++ {
		var sb strings.Builder
		var run strings.Builder
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(run.String()))
			}
			run.Reset()
		}
		for col := 0; col < b.cols; col++ {
			idx := row*b.cols + col
			bits := b.strokeBits[idx] | b.fillBits[idx]
			color := ""
			r := ' '
			if bits != 0 {
				r = rune(brailleBase + int(bits))
				color = b.fillColor[idx]
				if b.strokeBits[idx] != 0 {
					color = b.strokeColor[idx]
				}
			}
			if color != runColor {
				flush()
				runColor = color
			}
			run.WriteRune(r)
		}
		flush()
		lines[row] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// lineLimit bounds endpoint coordinates so clipping arithmetic stays finite.
const lineLimit = 1 << 24

// clipLine clips a segment to the rectangle [-1, w] x [-1, h] with the
// Liang-Barsky algorithm. The one-pixel margin leaves segments that are
// already inside untouched.
func clipLine(x0, y0, x1, y1, w, h float64) (float64, float64, float64, float64, bool) {
	for _, v := range [4]float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, 0, false
		}
	}
	x0, y0 = clampCoord(x0), clampCoord(y0)
	x1, y1 = clampCoord(x1), clampCoord(y1)

	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 + 1},
		{dx, w - x0},
		{-dy, y0 + 1},
		{dy, h - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, r)
		}
	}
	ax, ay, bx, by := x0, y0, x1, y1
	if t0 > 0 {
		ax, ay = x0+t0*dx, y0+t0*dy
	}
	if t1 < 1 {
		bx, by = x0+t1*dx, y0+t1*dy
	}
	return ax, ay, bx, by, true
}

func clampCoord(v float64) float64 {
	return math.Max(-lineLimit, math.Min(v, lineLimit))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
