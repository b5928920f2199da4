package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jtsunne/opsdash/internal/format"
	"github.com/jtsunne/opsdash/internal/model"
)

// alertItem adapts a model.Alert to list.DefaultItem.
type alertItem struct {
	alert model.Alert
	now   func() time.Time
}

func (i alertItem) Title() string {
	tag := AlertStyle(i.alert.Level).Render(strings.ToUpper(string(i.alert.Level)))
	return tag + " " + sanitize(i.alert.Text)
}

func (i alertItem) Description() string {
	return fmt.Sprintf("#%d  %s  %s", i.alert.ID,
		i.alert.Time.Format("15:04:05"), format.FormatAge(i.now().Sub(i.alert.Time)))
}

func (i alertItem) FilterValue() string {
	return string(i.alert.Level) + " " + i.alert.Text
}

// AlertFeed is the filterable, newest-first alert panel.
type AlertFeed struct {
	list     list.Model
	delegate list.DefaultDelegate
	now      func() time.Time
	count    int
}

// NewAlertFeed builds an empty feed.
func NewAlertFeed(accent string, now func() time.Time) AlertFeed {
	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	l := list.New(nil, d, 40, 10)
	l.Styles.NoItems = l.Styles.NoItems.Padding(0, 2)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	f := AlertFeed{list: l, delegate: d, now: now}
	f.SetAccent(accent)
	return f
}

// SetAccent restyles the selection marker.
func (f *AlertFeed) SetAccent(accent string) {
	c := lipgloss.Color(accent)
	f.delegate.Styles.SelectedTitle = f.delegate.Styles.SelectedTitle.
		BorderForeground(c).
		Foreground(c)
	f.delegate.Styles.SelectedDesc = f.delegate.Styles.SelectedDesc.
		BorderForeground(c).
		Foreground(c)
	f.list.SetDelegate(f.delegate)
}

// SetAlerts replaces the feed, keeping the selected alert selected when it
// survives. The returned command refilters when a filter is active.
func (f *AlertFeed) SetAlerts(alerts []model.Alert) tea.Cmd {
	var selected uint64
	if it, ok := f.list.SelectedItem().(alertItem); ok {
		selected = it.alert.ID
	}
	items := make([]list.Item, len(alerts))
	at := -1
	for i, a := range alerts {
		items[i] = alertItem{alert: a, now: f.now}
		if a.ID == selected {
			at = i
		}
	}
	f.count = len(alerts)
	cmd := f.list.SetItems(items)
	if f.list.FilterState() == list.Unfiltered {
		switch {
		case at >= 0:
			f.list.Select(at)
		case len(items) > 0 && f.list.Index() >= len(items):
			f.list.Select(len(items) - 1)
		}
	}
	return cmd
}

// Selected returns the alert under the cursor.
func (f *AlertFeed) Selected() (model.Alert, bool) {
	it, ok := f.list.SelectedItem().(alertItem)
	if !ok {
		return model.Alert{}, false
	}
	return it.alert, true
}

// Filtering reports whether the filter prompt owns the keyboard.
func (f *AlertFeed) Filtering() bool {
	return f.list.FilterState() == list.Filtering
}

// Len returns the number of alerts in the feed, ignoring any filter.
func (f *AlertFeed) Len() int { return f.count }

// SetSize resizes the list.
func (f *AlertFeed) SetSize(w, h int) {
	f.list.SetSize(max(w, 10), max(h, 3))
}

// Update forwards msg to the list.
func (f AlertFeed) Update(msg tea.Msg) (AlertFeed, tea.Cmd) {
	var cmd tea.Cmd
	f.list, cmd = f.list.Update(msg)
	return f, cmd
}

// View renders the feed with its title line.
func (f *AlertFeed) View() string {
	title := fmt.Sprintf("Alerts (%d)", f.count)
	hint := "[/: filter]  [x: dismiss]"
	if f.list.FilterState() != list.Unfiltered {
		hint = fmt.Sprintf("filter=%q  [esc: clear]", f.list.FilterValue())
	}
	return lipgloss.JoinVertical(lipgloss.Left, StyleDim.Render(title+"  "+hint), f.list.View())
}
