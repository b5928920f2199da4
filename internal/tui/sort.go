package tui

import (
	"sort"
	"strings"

	"github.com/jtsunne/opsdash/internal/model"
)

// sortNodes returns a sorted copy of nodes.
// Column mapping:
//
//	0=Name, 1=Status, 2=Load
//
// col -1 means no sort (preserve order).
// Ties are broken by Name ascending.
func sortNodes(nodes []model.Node, col int, desc bool) []model.Node {
	out := make([]model.Node, len(nodes))
	copy(out, nodes)

	if col < 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var less bool
		switch col {
		case 0:
			less = strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case 1:
			if a.Status != b.Status {
				less = a.Status < b.Status
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		case 2:
			if a.Load != b.Load {
				less = a.Load < b.Load
			} else {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
		default:
			return false
		}
		if desc {
			return !less
		}
		return less
	})
	return out
}

// filterNodes keeps the nodes whose name or status contains search,
// case-insensitively. An empty search keeps everything.
func filterNodes(nodes []model.Node, search string) []model.Node {
	if search == "" {
		return nodes
	}
	q := strings.ToLower(search)
	var out []model.Node
	for _, n := range nodes {
		if strings.Contains(strings.ToLower(n.Name), q) || strings.Contains(string(n.Status), q) {
			out = append(out, n)
		}
	}
	return out
}
