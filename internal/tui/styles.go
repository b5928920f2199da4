package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jtsunne/opsdash/internal/model"
)

// Color constants: dashboard palette.
var (
	colorGreen      = lipgloss.Color("#10b981")
	colorYellow     = lipgloss.Color("#f59e0b")
	colorRed        = lipgloss.Color("#ef4444")
	colorGray       = lipgloss.Color("#6b7280")
	colorBlue       = lipgloss.Color("#3b82f6")
	colorCyan       = lipgloss.Color("#06b6d4")
	colorPurple     = lipgloss.Color("#8b5cf6")
	colorOrange     = lipgloss.Color("#f97316")
	colorWhite      = lipgloss.Color("#f8fafc")
	colorDark       = lipgloss.Color("#1e293b")
	colorAlt        = lipgloss.Color("#0f172a")
	colorSelectedBg = lipgloss.Color("#334155")
)

// StyleHeader: full-width dark header bar.
var StyleHeader = lipgloss.NewStyle().
	Background(colorDark).
	Foreground(colorWhite).
	Padding(0, 1)

// StyleCard: rounded card used by stat and chart panels.
var StyleCard = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorGray).
	Padding(0, 1)

// StyleFocusedCard: StyleCard with the accent border, for the focused panel.
func StyleFocusedCard(accent string) lipgloss.Style {
	return StyleCard.BorderForeground(lipgloss.Color(accent))
}

// Utility styles.
var (
	StyleError = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	StyleDim   = lipgloss.NewStyle().Foreground(colorGray)
	StyleBold  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	StyleFlash = lipgloss.NewStyle().Foreground(colorDark).Background(colorGreen).Padding(0, 1)
)

// Named color styles for cell coloring.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	StyleOrange = lipgloss.NewStyle().Foreground(colorOrange)
	StyleBlue   = lipgloss.NewStyle().Foreground(colorBlue)
	StyleCyan   = lipgloss.NewStyle().Foreground(colorCyan)
	StylePurple = lipgloss.NewStyle().Foreground(colorPurple)
	StyleRed    = lipgloss.NewStyle().Foreground(colorRed)
)

// AlertStyle returns the bubble style for an alert level.
func AlertStyle(level model.AlertLevel) lipgloss.Style {
	switch level {
	case model.LevelCritical:
		return StyleRed.Bold(true)
	case model.LevelWarning:
		return StyleYellow
	default:
		return StyleCyan
	}
}

// NodeStatusStyle returns the foreground style for a node status.
func NodeStatusStyle(status model.NodeStatus) lipgloss.Style {
	if status == model.StatusWarn {
		return StyleYellow.Bold(true)
	}
	return StyleGreen
}
