package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jtsunne/opsdash/internal/format"
	"github.com/jtsunne/opsdash/internal/model"
)

// renderSources renders the top-sources ranking as horizontal bars scaled
// to the leader.
func renderSources(sources []model.TopSource, width int, accent string) string {
	if width <= 0 {
		width = 40
	}
	lines := []string{StyleDim.Render("Top Sources")}
	if len(sources) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, StyleDim.Render("  (no sources)"))...)
	}

	nameW := 0
	for _, s := range sources {
		nameW = max(nameW, lipgloss.Width(sanitize(s.Name)))
	}
	const valueW = 10
	barW := max(width-nameW-valueW-6, 4)
	top := sources[0].MB
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(accent))

	for i, s := range sources {
		filled := 0
		if top > 0 {
			filled = min(int(s.MB/top*float64(barW)+0.5), barW)
		}
		lines = append(lines, fmt.Sprintf("%d %-*s %s%s %*s",
			i+1, nameW, sanitize(s.Name),
			bar.Render(strings.Repeat("█", filled)),
			StyleDim.Render(strings.Repeat("░", barW-filled)),
			valueW, format.FormatMB(s.MB)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
