package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jtsunne/opsdash/internal/settings"
)

// settingsField holds the state for a single editable settings field.
type settingsField struct {
	Label       string
	suggestions []string
	input       textinput.Model
}

const (
	fieldAccent = iota
	fieldDisplayName
	fieldNotes
)

// SettingsFormModel manages the state of the appearance settings form.
type SettingsFormModel struct {
	fields       []settingsField
	focusedField int
	base         settings.Settings // values the form was opened with
	err          string
	submitted    bool // set by ctrl+s; cleared by parent after handling
	cancelled    bool // set by esc; cleared by parent after handling
}

// buildSettingsForm creates a SettingsFormModel pre-filled from cur.
func buildSettingsForm(cur settings.Settings) SettingsFormModel {
	fields := []settingsField{
		{Label: "Accent", suggestions: settings.Palette},
		{Label: "Display Name"},
		{Label: "Notes"},
	}
	values := []string{cur.Accent, cur.DisplayName, cur.Notes}
	limits := []int{7, 40, 200}

	for i := range fields {
		ti := textinput.New()
		ti.CharLimit = limits[i]
		ti.SetValue(values[i])
		fields[i].input = ti
	}
	fields[0].input.Focus()

	return SettingsFormModel{fields: fields, base: cur}
}

// Update handles keyboard input for the settings form.
// ctrl+s validates and sets m.submitted; esc sets m.cancelled.
// ↑/↓ and Tab/Shift+Tab navigate between fields.
// All other keys are forwarded to the focused field's text input.
func (m SettingsFormModel) Update(msg tea.Msg) (SettingsFormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.fields[m.focusedField].input, cmd = m.fields[m.focusedField].input.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		m.cancelled = true
		return m, nil

	case "ctrl+s":
		if _, err := m.values(); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.err = ""
		m.submitted = true
		return m, nil

	case "up", "shift+tab":
		m.fields[m.focusedField].input.Blur()
		m.focusedField = (m.focusedField + len(m.fields) - 1) % len(m.fields)
		m.fields[m.focusedField].input.Focus()
		return m, nil

	case "down", "tab":
		m.fields[m.focusedField].input.Blur()
		m.focusedField = (m.focusedField + 1) % len(m.fields)
		m.fields[m.focusedField].input.Focus()
		return m, nil

	default:
		var cmd tea.Cmd
		m.fields[m.focusedField].input, cmd = m.fields[m.focusedField].input.Update(msg)
		return m, cmd
	}
}

// values returns the edited settings, validated and normalized.
func (m SettingsFormModel) values() (settings.Settings, error) {
	s := m.base
	s.Accent = strings.TrimSpace(m.fields[fieldAccent].input.Value())
	s.DisplayName = m.fields[fieldDisplayName].input.Value()
	s.Notes = m.fields[fieldNotes].input.Value()
	if err := s.Validate(); err != nil {
		return settings.Settings{}, err
	}
	return s, nil
}

// settingsSaveCmd persists s and returns a SettingsSavedMsg.
func settingsSaveCmd(st settings.Store, s settings.Settings) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := st.Save(ctx, s)
		return SettingsSavedMsg{Settings: s, Err: err}
	}
}

// renderSettingsForm renders the full-screen settings form overlay.
// The caller (View) renders the header above and footer below.
func renderSettingsForm(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	form := &app.settingsForm

	titleText := "Edit Settings"
	hintText := StyleDim.Render("[ctrl+s: save  esc: cancel]")
	gap := max(width-2-lipgloss.Width(titleText)-lipgloss.Width(hintText), 1)
	titleBar := StyleHeader.Width(width).MaxWidth(width).
		Render(titleText + strings.Repeat(" ", gap) + hintText)

	selectedBg := lipgloss.NewStyle().Background(colorSelectedBg)
	lines := []string{titleBar, ""}
	for i, f := range form.fields {
		row := fmt.Sprintf("  %-16s", f.Label) + f.input.View()
		if i == form.focusedField {
			row = selectedBg.Width(width - 2).Render(row)
		}
		lines = append(lines, row)
		if len(f.suggestions) > 0 {
			swatches := make([]string, len(f.suggestions))
			for j, s := range f.suggestions {
				swatches[j] = lipgloss.NewStyle().Foreground(lipgloss.Color(s)).Render("■ " + s)
			}
			lines = append(lines, "  "+strings.Repeat(" ", 16)+strings.Join(swatches, "  "))
		}
	}
	if form.err != "" {
		lines = append(lines, "", "  "+StyleError.Render("Error: "+form.err))
	}
	return strings.Join(lines, "\n")
}
