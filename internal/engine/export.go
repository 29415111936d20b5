package engine

import (
	"strings"

	"todobar-cli/internal/store"
)

// SelectionText renders the selected nodes as plain text for the clipboard:
// one line per node in visible order, tab-indented relative to the shallowest
// selected node, with "(x)" / "()" completion markers.
func SelectionText(db *store.DB, selectedIDs []string, view *store.ViewState) string {
	if len(selectedIDs) == 0 {
		return ""
	}
	sel := make(map[string]bool, len(selectedIDs))
	for _, id := range selectedIDs {
		sel[id] = true
	}
	var picked []VisibleRow
	minDepth := -1
	for _, row := range VisibleOrder(db, view) {
		if !sel[row.Node.ID] {
			continue
		}
		picked = append(picked, row)
		if minDepth < 0 || row.Depth < minDepth {
			minDepth = row.Depth
		}
	}
	if len(picked) == 0 {
		return ""
	}
	lines := make([]string, len(picked))
	for i, row := range picked {
		mark := "()"
		if row.Node.Completed {
			mark = "(x)"
		}
		lines[i] = strings.Repeat("\t", row.Depth-minDepth) + mark + " - " + row.Node.Name
	}
	return strings.Join(lines, "\n")
}
