package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds all key bindings for the TUI.
type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Tab       key.Binding
	Simulate  key.Binding
	RangeUp   key.Binding
	RangeDown key.Binding
	Theme     key.Binding
	Compact   key.Binding
	Settings  key.Binding
	Search    key.Binding
	Escape    key.Binding
	Dismiss   key.Binding
	Up        key.Binding
	Down      key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	SortCol1  key.Binding
	SortCol2  key.Binding
	SortCol3  key.Binding
}

// keys is the global key map.
var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next panel"),
	),
	Simulate: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "simulate incident"),
	),
	RangeUp: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "range up + burst"),
	),
	RangeDown: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "range down + burst"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "cycle accent"),
	),
	Compact: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "compact"),
	),
	Settings: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "settings"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "dismiss alert"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "down"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next page"),
	),
	SortCol1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "sort name")),
	SortCol2: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "sort status")),
	SortCol3: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "sort load")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help, k.Tab, k.Simulate, k.RangeUp}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Help, k.Tab, k.Settings},
		{k.Simulate, k.RangeUp, k.RangeDown, k.Theme, k.Compact},
		{k.Search, k.Escape, k.Up, k.Down, k.Dismiss},
		{k.SortCol1, k.SortCol2, k.SortCol3, k.PrevPage, k.NextPage},
	}
}
