package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jtsunne/opsdash/internal/chart"
	"github.com/jtsunne/opsdash/internal/model"
	"github.com/jtsunne/opsdash/internal/sim"
)

// chartMetrics are the metrics drawn as full braille charts, left to right.
var chartMetrics = []string{sim.MetricThroughput, sim.MetricTraffic}

const (
	chartRowsNormal  = 6
	chartRowsCompact = 4
)

// newCharts builds one live chart per chart metric and binds it to the clock
// so every push redraws it.
func newCharts(clock *sim.Clock, theme chart.ThemeSource, opts []chart.Option) map[string]*chart.Chart {
	charts := make(map[string]*chart.Chart, len(chartMetrics))
	for _, name := range chartMetrics {
		c := chart.New(model.NewSeries(clock.Window()), 36, chartRowsNormal, theme, opts...)
		clock.Bind(name, c)
		charts[name] = c
	}
	return charts
}

// chartSize returns the cell size of each chart for the current layout.
func chartSize(width int, compact bool) (cols, rows int) {
	if width <= 0 {
		width = 80
	}
	rows = chartRowsNormal
	if compact {
		rows = chartRowsCompact
	}
	// two cards per row, each with 2 border + 2 padding columns
	return max(width/len(chartMetrics)-4, 10), rows
}

// renderChartsRow renders the live charts side by side, titled with the
// current stat label.
func renderChartsRow(app *App) string {
	cols, _ := chartSize(app.width, app.settings.Compact)
	cards := make([]string, 0, len(chartMetrics))
	for _, name := range chartMetrics {
		title := StyleDim.Render(statTitles[name]) + "  " + StyleBold.Render(app.stats[name])
		body := app.charts[name].View()
		cards = append(cards, StyleCard.Width(cols+2).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, body)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}
