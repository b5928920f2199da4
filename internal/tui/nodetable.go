package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/jtsunne/opsdash/internal/model"
)

// NodeTableModel is a sortable, paginated, searchable table of cluster nodes.
type NodeTableModel struct {
	tableModel
	allRows     []model.Node // unfiltered source data
	displayRows []model.Node // after filter + sort applied
}

// NewNodeTable returns a NodeTableModel in insertion order.
func NewNodeTable() NodeTableModel {
	cols := []columnDef{
		{Title: "Node", Width: 40, SortDesc: false},
		{Title: "Status", Width: 20, SortDesc: true},
		{Title: "Load", Width: 40, SortDesc: true},
	}
	return NodeTableModel{tableModel: newTableModel(cols)}
}

// SetData applies the current search filter and sort to nodes.
func (m *NodeTableModel) SetData(nodes []model.Node) {
	m.allRows = nodes
	m.refresh()
}

func (m *NodeTableModel) refresh() {
	m.displayRows = sortNodes(filterNodes(m.allRows, m.search), m.sortCol, m.sortDesc)
	m.clampPage(len(m.displayRows))
	m.clampCursor(len(m.displayRows))
}

// Update delegates to the embedded tableModel and re-applies filter and
// sort afterwards.
func (m NodeTableModel) Update(msg tea.Msg) (NodeTableModel, tea.Cmd) {
	base, cmd := m.tableModel.Update(msg)
	m.tableModel = base
	m.refresh()
	return m, cmd
}

// Selected returns the node under the cursor.
func (m *NodeTableModel) Selected() (model.Node, bool) {
	start, end := pageBounds(len(m.displayRows), m.page, m.pageSize)
	if start+m.cursor >= end {
		return model.Node{}, false
	}
	return m.displayRows[start+m.cursor], true
}

// View renders the "Nodes" section at the given width.
func (m *NodeTableModel) View(width int) string {
	hdr := m.titleLine(fmt.Sprintf("Nodes (%d)", len(m.allRows)), len(m.displayRows))

	start, end := pageBounds(len(m.displayRows), m.page, m.pageSize)
	if start == end {
		return lipgloss.JoinVertical(lipgloss.Left, hdr, StyleDim.Render("  (no nodes)"))
	}

	barWidth := max(width*m.columns[2].Width/100-6, 4)
	rows := m.displayRows[start:end]

	sortCol, focused, cursor := m.sortCol, m.focused, m.cursor
	t := ltable.New().
		Headers(m.headerTitles()...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				if col == sortCol {
					return lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
				}
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
			}
			base := lipgloss.NewStyle()
			if focused && row == cursor {
				base = base.Background(colorSelectedBg)
			} else if row%2 == 0 {
				base = base.Background(colorAlt)
			}
			switch col {
			case 1:
				return base.Foreground(NodeStatusStyle(rows[row].Status).GetForeground())
			case 2:
				return base.Foreground(severityFg(cpuSeverity(float64(rows[row].Load)), colorCyan))
			default:
				return base.Foreground(colorWhite)
			}
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)

	if width > 0 {
		t = t.Width(width)
	}

	for _, n := range rows {
		t = t.Row(
			sanitize(n.Name),
			strings.ToUpper(string(n.Status)),
			fmt.Sprintf("%s %3d%%", renderMiniBar(float64(n.Load), barWidth), n.Load),
		)
	}

	parts := []string{hdr, t.String()}
	if sel, ok := m.Selected(); ok && m.focused {
		parts = append(parts, StyleDim.Render("  "+sanitize(sel.Name)+"  id "+sel.ID))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
