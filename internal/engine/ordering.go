package engine

import (
	"strings"
	"time"

	"todobar-cli/internal/model"
	"todobar-cli/internal/store"
)

// Direction selects a neighbor for Move.
type Direction int

const (
	Up Direction = iota
	Down
)

// InsertPolicy carries the configured insertion position for new nodes,
// passed explicitly so the engine never reads ambient settings.
type InsertPolicy struct {
	RootAtTop  bool
	ChildAtTop bool
}

func (p InsertPolicy) AtTop(parentID string) bool {
	if strings.TrimSpace(parentID) == "" {
		return p.RootAtTop
	}
	return p.ChildAtTop
}

func parentIDOf(n *model.TaskNode) string {
	if n.ParentID == nil {
		return ""
	}
	return strings.TrimSpace(*n.ParentID)
}

func parentPtr(parentID string) *string {
	parentID = strings.TrimSpace(parentID)
	if parentID == "" {
		return nil
	}
	return &parentID
}

// Siblings returns the sibling group sorted by DisplayOrder, ascending or
// descending.
func Siblings(db *store.DB, parentID string, template bool, descending bool) []*model.TaskNode {
	sibs := db.ChildrenOf(parentID, template)
	if !descending {
		return sibs
	}
	out := make([]*model.TaskNode, len(sibs))
	for i, n := range sibs {
		out[len(sibs)-1-i] = n
	}
	return out
}

// NextOrder returns one past the maximum existing DisplayOrder in the group,
// with the group's cardinality as the defensive fallback.
func NextOrder(db *store.DB, parentID string, template bool) int {
	sibs := db.ChildrenOf(parentID, template)
	if len(sibs) == 0 {
		return 0
	}
	max := sibs[0].DisplayOrder
	for _, n := range sibs[1:] {
		if n.DisplayOrder > max {
			max = n.DisplayOrder
		}
	}
	if max < len(sibs)-1 {
		// Orders went inconsistent (shouldn't happen after a resequence);
		// cardinality still yields a slot past every dense index.
		return len(sibs)
	}
	return max + 1
}

// InsertionOrder returns the DisplayOrder a new node should take. Placing at
// top hands out min-1 so the node sorts first without touching the stored
// values of its siblings until the next resequence.
func InsertionOrder(db *store.DB, parentID string, template bool, placeAtTop bool) int {
	if !placeAtTop {
		return NextOrder(db, parentID, template)
	}
	sibs := db.ChildrenOf(parentID, template)
	if len(sibs) == 0 {
		return 0
	}
	min := sibs[0].DisplayOrder
	for _, n := range sibs[1:] {
		if n.DisplayOrder < min {
			min = n.DisplayOrder
		}
	}
	return min - 1
}

// Resequence rewrites the sibling group's DisplayOrder values to their
// 0-based rank in current ascending order. Returns whether anything changed;
// untouched groups cost no writes.
func Resequence(db *store.DB, parentID string, template bool) bool {
	changed := false
	for rank, n := range db.ChildrenOf(parentID, template) {
		if n.DisplayOrder != rank {
			n.DisplayOrder = rank
			changed = true
		}
	}
	return changed
}

// CreateNode inserts a fresh node into the sibling group under parentID and
// resequences that group so the contiguity invariant holds immediately.
func CreateNode(db *store.DB, parentID string, name string, template bool, placeAtTop bool) *model.TaskNode {
	id := db.NextID("task")
	db.AddNode(model.TaskNode{
		ID:           id,
		ParentID:     parentPtr(parentID),
		Name:         name,
		Template:     template,
		DisplayOrder: InsertionOrder(db, parentID, template, placeAtTop),
		CreatedAt:    time.Now().UTC(),
	})
	Resequence(db, parentID, template)
	n, _ := db.FindNode(id)
	return n
}

// Move swaps the node with its immediate neighbor in the given direction,
// then resequences the group. Returns false (and no error) at a boundary.
func Move(db *store.DB, id string, dir Direction) (bool, error) {
	n, ok := db.FindNode(id)
	if !ok {
		return false, errNotFound("task", id)
	}
	parentID := parentIDOf(n)
	sibs := db.ChildrenOf(parentID, n.Template)
	idx := -1
	for i, s := range sibs {
		if s.ID == n.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, errNotFound("task", id)
	}
	neighbor := idx - 1
	if dir == Down {
		neighbor = idx + 1
	}
	if neighbor < 0 || neighbor >= len(sibs) {
		return false, nil
	}
	sibs[idx].DisplayOrder, sibs[neighbor].DisplayOrder = sibs[neighbor].DisplayOrder, sibs[idx].DisplayOrder
	Resequence(db, parentID, n.Template)
	return true, nil
}

// MoveMany moves every listed node one step in dir while preserving their
// relative order. Sibling groups are handled independently; a group is left
// untouched when any of its listed members already sits at the boundary.
// Stale ids are skipped. Reports whether anything moved.
func MoveMany(db *store.DB, ids []string, dir Direction) bool {
	want := make(map[string]bool, len(ids))
	type group struct {
		parentID string
		template bool
	}
	var order []group
	seen := map[group]bool{}
	for _, id := range ids {
		n, ok := db.FindNode(id)
		if !ok {
			continue
		}
		want[n.ID] = true
		g := group{parentID: parentIDOf(n), template: n.Template}
		if !seen[g] {
			seen[g] = true
			order = append(order, g)
		}
	}

	moved := false
	for _, g := range order {
		sibs := db.ChildrenOf(g.parentID, g.template)
		ranked := make([]string, len(sibs))
		var sel []int
		for i, s := range sibs {
			ranked[i] = s.ID
			if want[s.ID] {
				sel = append(sel, i)
			}
		}
		if len(sel) == 0 {
			continue
		}
		if dir == Up && sel[0] == 0 {
			continue
		}
		if dir == Down && sel[len(sel)-1] == len(ranked)-1 {
			continue
		}
		if dir == Up {
			for _, i := range sel {
				ranked[i-1], ranked[i] = ranked[i], ranked[i-1]
			}
		} else {
			for k := len(sel) - 1; k >= 0; k-- {
				i := sel[k]
				ranked[i], ranked[i+1] = ranked[i+1], ranked[i]
			}
		}
		for rank, id := range ranked {
			if n, ok := db.FindNode(id); ok {
				n.DisplayOrder = rank
			}
		}
		Resequence(db, g.parentID, g.template)
		moved = true
	}
	return moved
}

// ReorderByDrag realizes a drag-to-position reorder: the dragged node is
// removed from an in-memory copy of the sibling list, reinserted immediately
// before/after the target, and only the half-open window between its old and
// new index gets its DisplayOrder rewritten.
//
// If the target cannot be located after removal (deleted concurrently), the
// dragged node goes back to its original index and the whole group is
// resequenced.
func ReorderByDrag(db *store.DB, draggedID, targetID, parentID string, template bool, placeBefore bool) error {
	dragged, ok := db.FindNode(draggedID)
	if !ok {
		return errNotFound("task", draggedID)
	}
	if draggedID == targetID {
		return nil
	}

	sibs := db.ChildrenOf(parentID, template)
	oldIdx := -1
	for i, s := range sibs {
		if s.ID == dragged.ID {
			oldIdx = i
			break
		}
	}
	if oldIdx < 0 {
		return errNotFound("task", draggedID)
	}

	rest := make([]*model.TaskNode, 0, len(sibs)-1)
	rest = append(rest, sibs[:oldIdx]...)
	rest = append(rest, sibs[oldIdx+1:]...)

	targetIdx := -1
	for i, s := range rest {
		if s.ID == strings.TrimSpace(targetID) {
			targetIdx = i
			break
		}
	}
	if targetIdx < 0 {
		// Target vanished; restore the original position and repair.
		Resequence(db, parentID, template)
		return nil
	}

	newIdx := targetIdx
	if !placeBefore {
		newIdx = targetIdx + 1
	}
	if newIdx == oldIdx {
		return nil
	}

	final := make([]*model.TaskNode, 0, len(sibs))
	final = append(final, rest[:newIdx]...)
	final = append(final, dragged)
	final = append(final, rest[newIdx:]...)

	lo, hi := oldIdx, newIdx
	if lo > hi {
		lo, hi = hi, lo
	}
	for i := lo; i <= hi && i < len(final); i++ {
		if final[i].DisplayOrder != i {
			final[i].DisplayOrder = i
		}
	}
	return nil
}
