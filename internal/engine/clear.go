package engine

import (
	"todobar-cli/internal/model"
	"todobar-cli/internal/selection"
	"todobar-cli/internal/store"
)

// ClearPolicy carries the configured behavior for ClearCompleted, passed
// explicitly like InsertPolicy.
type ClearPolicy struct {
	// StruckDescendants keeps a completed node eligible even when part of its
	// subtree is still open; the open descendants are deleted with it. When
	// false, only fully completed subtrees qualify.
	StruckDescendants bool
	// SkipHidden exempts completed nodes buried under a collapsed, incomplete
	// ancestor, on the assumption the user cannot see what they would lose.
	SkipHidden bool
}

// IsSubtreeCompleted reports whether id and every node beneath it is
// completed.
func IsSubtreeCompleted(db *store.DB, id string) bool {
	root, ok := db.FindNode(id)
	if !ok {
		return false
	}
	template := root.Template
	stack := []string{root.ID}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, ok := db.FindNode(cur)
		if !ok || !n.Completed {
			return false
		}
		for _, c := range db.ChildrenOf(cur, template) {
			stack = append(stack, c.ID)
		}
	}
	return true
}

// ancestorsRevealed reports whether every ancestor of n is either completed
// or expanded. A completed node failing this check sits under a collapsed,
// still-open branch and is considered hidden from the user.
func ancestorsRevealed(db *store.DB, n *model.TaskNode, view *store.ViewState) bool {
	cur := parentIDOf(n)
	for cur != "" {
		a, ok := db.FindNode(cur)
		if !ok {
			return true
		}
		if !a.Completed && view.IsCollapsed(a.ID) {
			return false
		}
		cur = parentIDOf(a)
	}
	return true
}

// ClearCompleted deletes the completed live tasks that pass both policy
// gates, as whole subtrees. Returns the ids of the topmost deleted nodes;
// nested eligible nodes go down with their eligible ancestor and are not
// reported separately. No eligible node is a no-op, not an error.
func ClearCompleted(db *store.DB, policy ClearPolicy, view *store.ViewState, sel *selection.Selection) ([]string, error) {
	targets := map[string]bool{}
	var targetIDs []string
	for _, root := range db.RootTasks() {
		for _, id := range CollectSubtreeIDs(db, root.ID) {
			n, ok := db.FindNode(id)
			if !ok || !n.Completed {
				continue
			}
			if !policy.StruckDescendants && !IsSubtreeCompleted(db, n.ID) {
				continue
			}
			if policy.SkipHidden && !ancestorsRevealed(db, n, view) {
				continue
			}
			targets[n.ID] = true
			targetIDs = append(targetIDs, n.ID)
		}
	}
	if len(targetIDs) == 0 {
		return nil, nil
	}

	var topmost []string
	for _, id := range targetIDs {
		n, _ := db.FindNode(id)
		nested := false
		cur := parentIDOf(n)
		for cur != "" {
			if targets[cur] {
				nested = true
				break
			}
			a, ok := db.FindNode(cur)
			if !ok {
				break
			}
			cur = parentIDOf(a)
		}
		if !nested {
			topmost = append(topmost, id)
		}
	}

	if err := DeleteMany(db, topmost, view, sel); err != nil {
		return nil, err
	}
	return topmost, nil
}
