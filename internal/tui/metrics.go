package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jtsunne/opsdash/internal/sim"
)

// statTitles are the card labels of the tracked metrics.
var statTitles = map[string]string{
	sim.MetricThroughput: "Throughput",
	sim.MetricTraffic:    "Traffic",
	sim.MetricCPU:        "CPU",
	sim.MetricMemory:     "Memory",
	sim.MetricLatency:    "Latency",
}

// statColors are the base sparkline colours per metric.
var statColors = map[string]lipgloss.Color{
	sim.MetricThroughput: colorGreen,
	sim.MetricTraffic:    colorCyan,
	sim.MetricCPU:        colorBlue,
	sim.MetricMemory:     colorPurple,
	sim.MetricLatency:    colorOrange,
}

// renderStatsRow renders one stat card per metric: the sink-provided label,
// a sparkline of the window and, for percentages, a mini bar.
// Wide terminals (>= 80 cols): all cards in a single row.
// Narrow terminals: cards stacked two per row.
func renderStatsRow(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	perRow := len(sim.MetricOrder)
	if width < 80 {
		perRow = 2
	}
	// each card adds 2 border + 2 padding columns
	cardWidth := max(width/perRow-4, 8)

	cards := make([]string, 0, len(sim.MetricOrder))
	for _, name := range sim.MetricOrder {
		cards = append(cards, renderStatCard(app, name, cardWidth))
	}

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := min(i+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderStatCard(app *App, name string, width int) string {
	value := app.values[name]
	sev := metricSeverity(name, value)

	text := app.stats[name]
	if text == "" {
		text = "---"
	}
	if sev == severityCritical {
		text += "!"
	}

	lines := []string{
		StyleDim.Render(statTitles[name]),
		lipgloss.NewStyle().Bold(true).Foreground(severityFg(sev, colorWhite)).Render(text),
		RenderSparkline(app.series[name], width, severityFg(sev, statColors[name])),
	}
	if name == sim.MetricCPU || name == sim.MetricMemory {
		lines = append(lines, severityToStyle(sev).Render(renderMiniBar(value, width)))
	}

	return StyleCard.Width(width + 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
