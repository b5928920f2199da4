package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderFooter renders the key binding help footer at full terminal width.
// A pending flash message is shown at the left of the short help.
func renderFooter(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	app.help.Width = width
	app.help.ShowAll = app.showHelp
	helpView := app.help.View(keys)

	if app.flash == "" || app.showHelp {
		return lipgloss.NewStyle().Width(width).Render(helpView)
	}
	flash := StyleFlash.Render(sanitize(app.flash))
	gap := max(width-lipgloss.Width(flash)-lipgloss.Width(helpView), 1)
	return lipgloss.NewStyle().Width(width).MaxWidth(width).
		Render(flash + strings.Repeat(" ", gap) + helpView)
}
