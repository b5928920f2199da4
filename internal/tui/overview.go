package tui

import (
	"github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"

	"github.com/jtsunne/opsdash/internal/sim"
)

// overviewMetrics are drawn together on the resource overview, highlight first.
var overviewMetrics = []string{sim.MetricCPU, sim.MetricMemory}

// Overview is the combined CPU/memory line plot shown above the tables in
// normal (non-compact) mode.
type Overview struct {
	canvas *plot.Canvas
	data   [][]float64
	window int
	w, h   int
}

// NewOverview returns an overview over window samples per line.
func NewOverview(window, w, h int) *Overview {
	o := &Overview{window: window, data: make([][]float64, len(overviewMetrics))}
	for i := range o.data {
		o.data[i] = make([]float64, window)
	}
	o.Resize(w, h)
	return o
}

// Resize recreates the canvas at the new size.
func (o *Overview) Resize(w, h int) {
	w, h = max(w, 10), max(h, 3)
	if o.canvas != nil && o.w == w && o.h == h {
		return
	}
	o.w, o.h = w, h
	p := plot.NewCanvas(w, h)
	p.NumDataPoints = o.window
	p.ShowAxis = false
	p.LineColors = make([]plot.Color, len(overviewMetrics))
	o.canvas = &p
	o.canvas.Fill(o.data)
}

// Update copies the latest windows out of series. Short windows are
// left-padded with their first sample so every line spans the canvas.
func (o *Overview) Update(series map[string][]float64) {
	var highlight, dim plot.Color
	if lipgloss.DefaultRenderer().HasDarkBackground() {
		highlight, dim = plot.Red, plot.LightGray
	} else {
		highlight, dim = plot.Black, plot.DimGray
	}

	for i, name := range overviewMetrics {
		padWindow(o.data[i], series[name])
		o.canvas.LineColors[i] = dim
	}
	o.canvas.LineColors[0] = highlight
	o.canvas.Fill(o.data)
}

// padWindow right-aligns src into dst, repeating src's first value in
// front of it. An empty src zeroes dst.
func padWindow(dst, src []float64) {
	if len(src) > len(dst) {
		src = src[len(src)-len(dst):]
	}
	var fill float64
	if len(src) > 0 {
		fill = src[0]
	}
	off := len(dst) - len(src)
	for i := 0; i < off; i++ {
		dst[i] = fill
	}
	copy(dst[off:], src)
}

// View renders the canvas with a legend line.
func (o *Overview) View() string {
	legend := StyleRed.Render("━ CPU") + "  " + StyleDim.Render("━ Memory")
	return lipgloss.JoinVertical(lipgloss.Left, StyleDim.Render("Resources")+"  "+legend, o.canvas.String())
}
