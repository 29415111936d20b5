package engine

import (
	"todobar-cli/internal/model"
	"todobar-cli/internal/store"
)

// VisibleRow is one line of the flattened outline: the node plus its depth in
// the tree (roots are depth 0).
type VisibleRow struct {
	Node  *model.TaskNode
	Depth int
}

// VisibleOrder flattens the live tree depth-first in sibling order, skipping
// the children of collapsed nodes. The result is the canonical visible order
// that selection and keyboard navigation operate on.
func VisibleOrder(db *store.DB, view *store.ViewState) []VisibleRow {
	var rows []VisibleRow
	var walk func(parentID string, depth int)
	walk = func(parentID string, depth int) {
		for _, n := range db.ChildrenOf(parentID, false) {
			rows = append(rows, VisibleRow{Node: n, Depth: depth})
			if !view.IsCollapsed(n.ID) {
				walk(n.ID, depth+1)
			}
		}
	}
	walk("", 0)
	return rows
}

// VisibleIDs is VisibleOrder reduced to the id sequence.
func VisibleIDs(db *store.DB, view *store.ViewState) []string {
	rows := VisibleOrder(db, view)
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.Node.ID
	}
	return ids
}

// SubtreeRows flattens root's subtree fully expanded, ignoring collapse
// state. The root itself is depth 0.
func SubtreeRows(db *store.DB, rootID string) []VisibleRow {
	root, ok := db.FindNode(rootID)
	if !ok {
		return nil
	}
	template := root.Template
	var rows []VisibleRow
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n, ok := db.FindNode(id)
		if !ok {
			return
		}
		rows = append(rows, VisibleRow{Node: n, Depth: depth})
		for _, c := range db.ChildrenOf(id, template) {
			walk(c.ID, depth+1)
		}
	}
	walk(root.ID, 0)
	return rows
}

// ChildrenRows flattens the subtrees of parentID's children, fully expanded,
// with the children at depth 0. Used to render template bodies, whose
// container root is not itself a task.
func ChildrenRows(db *store.DB, parentID string, template bool) []VisibleRow {
	var rows []VisibleRow
	for _, c := range db.ChildrenOf(parentID, template) {
		for _, r := range SubtreeRows(db, c.ID) {
			rows = append(rows, r)
		}
	}
	return rows
}
