package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"todobar-cli/internal/model"
	"todobar-cli/internal/selection"
	"todobar-cli/internal/store"
)

// CollectSubtreeIDs returns the ids of node and all of its descendants in
// pre-order. Iterative with an explicit stack so arbitrarily deep trees
// never hit a recursion limit.
func CollectSubtreeIDs(db *store.DB, rootID string) []string {
	root, ok := db.FindNode(rootID)
	if !ok {
		return nil
	}
	template := root.Template
	var out []string
	stack := []string{root.ID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, id)
		children := db.ChildrenOf(id, template)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i].ID)
		}
	}
	return out
}

func subtreeIDSet(db *store.DB, rootID string) map[string]bool {
	ids := CollectSubtreeIDs(db, rootID)
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// CopyName computes a non-colliding duplicate name against taken:
// "<name> (copy)", then "<name> (copy 2)", "(copy 3)", ...
func CopyName(base string, taken map[string]bool) string {
	candidate := base + " (copy)"
	for i := 2; taken[candidate]; i++ {
		candidate = fmt.Sprintf("%s (copy %d)", base, i)
	}
	return candidate
}

func siblingNames(sibs []*model.TaskNode) map[string]bool {
	names := make(map[string]bool, len(sibs))
	for _, s := range sibs {
		names[s.Name] = true
	}
	return names
}

type cloneOptions struct {
	// toLive strips the template flag and completion state from every clone
	// (template instantiation).
	toLive bool
}

type cloneFrame struct {
	srcID  string
	parent *string
	order  int
	name   string
}

// cloneSubtree deep-clones src and its descendants under parent, preserving
// relative child order and assigning fresh ids and creation timestamps.
// Returns the clone root's id.
//
// Node pointers are never held across AddNode: appends may reallocate the
// store's backing slice.
func cloneSubtree(db *store.DB, srcID string, parent *string, order int, name string, opts cloneOptions) (string, bool) {
	if _, ok := db.FindNode(srcID); !ok {
		return "", false
	}
	now := time.Now().UTC()
	rootNewID := ""
	stack := []cloneFrame{{srcID: srcID, parent: parent, order: order, name: name}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		src, ok := db.FindNode(f.srcID)
		if !ok {
			continue
		}
		completed := src.Completed
		template := src.Template
		children := db.ChildrenOf(f.srcID, template)
		type childRef struct {
			id   string
			name string
		}
		refs := make([]childRef, len(children))
		for i, c := range children {
			refs[i] = childRef{id: c.ID, name: c.Name}
		}

		if opts.toLive {
			completed = false
			template = false
		}
		newID := db.NextID("task")
		db.AddNode(model.TaskNode{
			ID:           newID,
			ParentID:     f.parent,
			Name:         f.name,
			Completed:    completed,
			Template:     template,
			DisplayOrder: f.order,
			CreatedAt:    now,
		})
		if rootNewID == "" {
			rootNewID = newID
		}
		newParent := newID
		for i := len(refs) - 1; i >= 0; i-- {
			stack = append(stack, cloneFrame{srcID: refs[i].id, parent: &newParent, order: i, name: refs[i].name})
		}
	}
	return rootNewID, rootNewID != ""
}

// Duplicate deep-clones node and its subtree, inserts the clone immediately
// after the source among its siblings, gives it a fresh non-colliding
// "(copy)" name, and resequences the group.
func Duplicate(db *store.DB, id string) (*model.TaskNode, error) {
	src, ok := db.FindNode(id)
	if !ok {
		return nil, errNotFound("task", id)
	}
	parentID := parentIDOf(src)
	template := src.Template
	srcOrder := src.DisplayOrder
	srcName := src.Name

	sibs := db.ChildrenOf(parentID, template)
	names := siblingNames(sibs)
	for _, s := range sibs {
		if s.DisplayOrder > srcOrder {
			s.DisplayOrder++
		}
	}

	newID, ok := cloneSubtree(db, id, parentPtr(parentID), srcOrder+1, CopyName(srcName, names), cloneOptions{})
	if !ok {
		return nil, errNotFound("task", id)
	}
	Resequence(db, parentID, template)
	n, _ := db.FindNode(newID)
	return n, nil
}

// DuplicateMany duplicates a batch. Inputs are grouped by parent; within each
// group the originals are renumbered to a dense run with each fresh duplicate
// interleaved immediately after its source, duplicate names staying unique
// against the evolving sibling name set. Each affected group is resequenced
// once.
//
// The returned ids are ordered by position in the caller's visible list,
// falling back to creation order for duplicates not present in it.
func DuplicateMany(db *store.DB, ids []string, visible []string) ([]string, error) {
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
			continue // stale reference: skip, not fatal
		}
		want[n.ID] = true
		g := group{parentID: parentIDOf(n), template: n.Template}
		if !seen[g] {
			seen[g] = true
			order = append(order, g)
		}
	}
	if len(want) == 0 {
		return nil, nil
	}

	var created []string
	for _, g := range order {
		sibs := db.ChildrenOf(g.parentID, g.template)
		names := siblingNames(sibs)
		type sibRef struct {
			id   string
			name string
		}
		refs := make([]sibRef, len(sibs))
		for i, s := range sibs {
			refs[i] = sibRef{id: s.ID, name: s.Name}
		}

		next := 0
		for _, ref := range refs {
			if n, ok := db.FindNode(ref.id); ok {
				n.DisplayOrder = next
			}
			next++
			if !want[ref.id] {
				continue
			}
			name := CopyName(ref.name, names)
			names[name] = true
			cloneID, ok := cloneSubtree(db, ref.id, parentPtr(g.parentID), next, name, cloneOptions{})
			if ok {
				created = append(created, cloneID)
				next++
			}
		}
		Resequence(db, g.parentID, g.template)
	}

	return selection.OrderLikeVisible(created, visible), nil
}

// depthOf counts ancestors between id and its root.
func depthOf(db *store.DB, id string) int {
	depth := 0
	cur := id
	for {
		n, ok := db.FindNode(cur)
		if !ok || n.ParentID == nil {
			return depth
		}
		depth++
		cur = strings.TrimSpace(*n.ParentID)
	}
}

// DeleteCascade deletes node and its entire subtree, scrubs the subtree ids
// from collapse state and selection, resequences the orphaned sibling group,
// and prunes any collapse entries left dangling.
func DeleteCascade(db *store.DB, id string, view *store.ViewState, sel *selection.Selection) error {
	n, ok := db.FindNode(id)
	if !ok {
		return errNotFound("task", id)
	}
	return DeleteMany(db, []string{n.ID}, view, sel)
}

// DeleteMany batches cascading deletes: the union of all subtree ids is
// removed deepest-first, every distinct surviving parent group is
// resequenced, and stale collapse state is pruned in one pass.
func DeleteMany(db *store.DB, ids []string, view *store.ViewState, sel *selection.Selection) error {
	doomed := map[string]bool{}
	type group struct {
		parentID string
		template bool
	}
	affected := map[group]bool{}
	found := false
	for _, id := range ids {
		n, ok := db.FindNode(id)
		if !ok {
			continue
		}
		found = true
		affected[group{parentID: parentIDOf(n), template: n.Template}] = true
		for sub := range subtreeIDSet(db, n.ID) {
			doomed[sub] = true
		}
	}
	if !found {
		return errNotFound("task", strings.Join(ids, ","))
	}

	view.RemoveAll(doomed)
	if sel != nil {
		sel.Remove(doomed)
	}

	// Deepest-first batches keep parents alive until their children are gone,
	// matching stores that enforce ordered deletes.
	byDepth := map[int][]string{}
	maxDepth := 0
	for id := range doomed {
		d := depthOf(db, id)
		byDepth[d] = append(byDepth[d], id)
		if d > maxDepth {
			maxDepth = d
		}
	}
	for d := maxDepth; d >= 0; d-- {
		if len(byDepth[d]) == 0 {
			continue
		}
		batch := make(map[string]bool, len(byDepth[d]))
		for _, id := range byDepth[d] {
			batch[id] = true
		}
		db.RemoveNodes(batch)
	}

	groups := make([]group, 0, len(affected))
	for g := range affected {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].parentID != groups[j].parentID {
			return groups[i].parentID < groups[j].parentID
		}
		return !groups[i].template && groups[j].template
	})
	for _, g := range groups {
		if g.parentID != "" {
			if _, ok := db.FindNode(g.parentID); !ok {
				continue // parent went down with the delete
			}
		}
		Resequence(db, g.parentID, g.template)
	}

	view.Prune(db)
	return nil
}
