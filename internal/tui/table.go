package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// columnDef describes a single column in a table.
type columnDef struct {
	Title    string
	Width    int  // preferred share of the table width
	SortDesc bool // initial direction when the column is first selected
}

// tableModel is the generic base for sortable, paginated, searchable tables.
type tableModel struct {
	columns   []columnDef
	sortCol   int // -1 = unsorted
	sortDesc  bool
	page      int // 0-indexed
	pageSize  int // default 10
	cursor    int // row within the current page
	search    string
	searching bool
	input     textinput.Model
	focused   bool
}

// newTableModel initialises a tableModel with sensible defaults.
func newTableModel(cols []columnDef) tableModel {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 80
	return tableModel{
		columns:  cols,
		sortCol:  -1,
		pageSize: 10,
		input:    ti,
	}
}

// Update handles keyboard input for sorting, pagination, cursor movement
// and search.
func (t tableModel) Update(msg tea.Msg) (tableModel, tea.Cmd) {
	if !t.focused {
		return t, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}

	if t.searching {
		switch {
		case key.Matches(keyMsg, keys.Escape):
			t.searching = false
			t.input.Blur()
			if t.input.Value() == "" {
				t.search = ""
			}
			return t, nil
		case keyMsg.String() == "enter":
			t.search = t.input.Value()
			t.searching = false
			t.input.Blur()
			t.page = 0
			t.cursor = 0
			return t, nil
		default:
			var cmd tea.Cmd
			t.input, cmd = t.input.Update(msg)
			return t, cmd
		}
	}

	switch {
	case key.Matches(keyMsg, keys.Search):
		t.searching = true
		t.input.SetValue(t.search)
		t.input.Focus()
		return t, textinput.Blink
	case key.Matches(keyMsg, keys.Escape):
		t.search = ""
		t.input.SetValue("")
		t.page = 0
		t.cursor = 0
	case key.Matches(keyMsg, keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		t.cursor++
	case key.Matches(keyMsg, keys.PrevPage):
		if t.page > 0 {
			t.page--
			t.cursor = 0
		}
	case key.Matches(keyMsg, keys.NextPage):
		t.page++
		t.cursor = 0
	default:
		col := digitToCol(keyMsg.String())
		if col >= 0 && col < len(t.columns) {
			if col == t.sortCol {
				t.sortDesc = !t.sortDesc
			} else {
				t.sortCol = col
				t.sortDesc = t.columns[col].SortDesc
			}
			t.page = 0
			t.cursor = 0
		}
	}
	return t, nil
}

// digitToCol converts a "1"–"9" key string to a 0-indexed column number.
// Returns -1 for any other string.
func digitToCol(s string) int {
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '1')
	}
	return -1
}

// pageCount returns the total number of pages for totalRows rows at pageSize rows per page.
// Always at least 1.
func pageCount(totalRows, pageSize int) int {
	if totalRows == 0 || pageSize <= 0 {
		return 1
	}
	return (totalRows + pageSize - 1) / pageSize
}

// pageBounds returns the half-open row range visible on page.
func pageBounds(totalRows, page, pageSize int) (start, end int) {
	if pageSize <= 0 {
		return 0, totalRows
	}
	start = page * pageSize
	if start >= totalRows {
		start = 0
	}
	end = min(start+pageSize, totalRows)
	return start, end
}

// clampPage ensures the page index stays within valid bounds given the total
// number of rows and the configured pageSize.
func (t *tableModel) clampPage(totalRows int) {
	pc := pageCount(totalRows, t.pageSize)
	t.page = min(max(t.page, 0), pc-1)
}

// clampCursor keeps the cursor on a visible row.
func (t *tableModel) clampCursor(totalRows int) {
	start, end := pageBounds(totalRows, t.page, t.pageSize)
	n := end - start
	if n == 0 {
		t.cursor = 0
		return
	}
	t.cursor = min(max(t.cursor, 0), n-1)
}

// titleLine renders the section title with search/sort/page hints.
func (t *tableModel) titleLine(title string, totalRows int) string {
	pageInfo := fmt.Sprintf("Page %d/%d", t.page+1, pageCount(totalRows, t.pageSize))

	var right string
	switch {
	case t.searching:
		right = "Search: " + t.input.View()
	case t.search != "":
		right = fmt.Sprintf("filter=%q  %s", t.search, pageInfo)
	default:
		right = fmt.Sprintf("[/: search]  [1-%d: sort]  [←→: page]  %s", len(t.columns), pageInfo)
	}
	return StyleDim.Render(title + "  " + right)
}

// headerTitles returns the column titles, with an arrow on the sort column.
func (t *tableModel) headerTitles() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Title
		if i == t.sortCol {
			if t.sortDesc {
				out[i] += "↓"
			} else {
				out[i] += "↑"
			}
		}
	}
	return out
}

// sanitize strips control characters so names cannot break the layout.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
