package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jtsunne/opsdash/internal/format"
	"github.com/jtsunne/opsdash/internal/sim"
)

// renderHeader renders the top header bar.
//
// Layout:
//   left:   display name (or "opsdash")
//   center: colored "● STATUS" clock indicator
//   right:  "#ticks  Last: HH:MM:SS  Tick: 1.5s  Range: N"
func renderHeader(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	left := "opsdash"
	if name := strings.TrimSpace(app.settings.DisplayName); name != "" {
		left = sanitize(name)
	}
	left = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(app.settings.Accent)).Render(left)

	status := app.clock.Status()
	center := clockStatusStyle(status).Render("● " + strings.ToUpper(status.String()))

	lastStr := "--:--:--"
	if !app.lastTick.IsZero() {
		lastStr = app.lastTick.Format("15:04:05")
	}
	right := StyleDim.Render(fmt.Sprintf("#%s  Last: %s  Tick: %s  Range: %d",
		format.FormatNumber(int64(app.ticks)), lastStr, format.FormatInterval(app.clock.Interval()), app.rangeN))

	// StyleHeader has Padding(0, 1) so inner content width = total width - 2.
	innerWidth := width - 2
	spacing := max(innerWidth-lipgloss.Width(left)-lipgloss.Width(center)-lipgloss.Width(right), 0)
	leftSpacing := spacing / 2
	rightSpacing := spacing - leftSpacing

	row := left +
		strings.Repeat(" ", leftSpacing) +
		center +
		strings.Repeat(" ", rightSpacing) +
		right

	return StyleHeader.Width(width).Render(row)
}

func clockStatusStyle(s sim.Status) lipgloss.Style {
	switch s {
	case sim.StatusRunning:
		return StyleGreen
	case sim.StatusStopped:
		return StyleError
	default:
		return StyleYellow
	}
}
