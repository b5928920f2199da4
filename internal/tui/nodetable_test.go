package tui

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtsunne/opsdash/internal/model"
)

func fixtureNodes() []model.Node {
	return []model.Node{
		{ID: "a", Name: "node-01", Status: model.StatusOK, Load: 34},
		{ID: "b", Name: "node-02", Status: model.StatusOK, Load: 58},
		{ID: "c", Name: "node-03", Status: model.StatusWarn, Load: 86},
		{ID: "d", Name: "node-04", Status: model.StatusOK, Load: 58},
	}
}

func names(nodes []model.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestSortNodes_Unsorted(t *testing.T) {
	in := fixtureNodes()
	out := sortNodes(in, -1, false)
	assert.Equal(t, names(in), names(out))
	out[0].Name = "changed"
	assert.Equal(t, "node-01", in[0].Name, "sort returns a copy")
}

func TestSortNodes_LoadDescWithNameTiebreak(t *testing.T) {
	out := sortNodes(fixtureNodes(), 2, true)
	assert.Equal(t, []string{"node-03", "node-02", "node-04", "node-01"}, names(out))
}

func TestSortNodes_StatusAsc(t *testing.T) {
	out := sortNodes(fixtureNodes(), 1, false)
	assert.Equal(t, "node-03", out[len(out)-1].Name)
}

func TestFilterNodes(t *testing.T) {
	nodes := fixtureNodes()
	assert.Len(t, filterNodes(nodes, ""), 4)
	assert.Equal(t, []string{"node-03"}, names(filterNodes(nodes, "warn")))
	assert.Equal(t, []string{"node-02"}, names(filterNodes(nodes, "NODE-02")))
	assert.Empty(t, filterNodes(nodes, "nope"))
}

func TestNodeTable_SetDataAppliesSortAndFilter(t *testing.T) {
	m := NewNodeTable()
	m.focused = true
	m.SetData(fixtureNodes())
	assert.Equal(t, names(fixtureNodes()), names(m.displayRows), "insertion order by default")

	m, _ = m.Update(runeKey("3"))
	assert.Equal(t, "node-03", m.displayRows[0].Name)

	m.search = "warn"
	m.SetData(fixtureNodes())
	assert.Len(t, m.displayRows, 1)
}

func TestNodeTable_CursorAndSelection(t *testing.T) {
	m := NewNodeTable()
	m.focused = true
	m.SetData(fixtureNodes())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "node-03", sel.Name)

	for i := 0; i < 10; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	sel, _ = m.Selected()
	assert.Equal(t, "node-04", sel.Name, "cursor clamps to the last row")
}

func TestNodeTable_PaginationClamps(t *testing.T) {
	var nodes []model.Node
	for i := 1; i <= 12; i++ {
		nodes = append(nodes, model.Node{Name: fmt.Sprintf("node-%02d", i), Status: model.StatusOK})
	}
	m := NewNodeTable()
	m.focused = true
	m.SetData(nodes)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.page)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.page, "next page clamps at the last page")
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "node-11", sel.Name)
}

func TestNodeTable_ViewContainsRows(t *testing.T) {
	m := NewNodeTable()
	m.focused = true
	m.SetData(fixtureNodes())
	out := stripANSI(m.View(80))
	assert.Contains(t, out, "Nodes (4)")
	assert.Contains(t, out, "node-03")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "86%")
	assert.Contains(t, out, "id a", "focused table shows the selected node detail")
}

func TestNodeTable_ViewEmpty(t *testing.T) {
	m := NewNodeTable()
	assert.Contains(t, stripANSI(m.View(80)), "(no nodes)")
}
