package pathcmd

import (
	"errors"
	"strings"

	"todobar-cli/internal/engine"
	"todobar-cli/internal/model"
	"todobar-cli/internal/store"
)

var ErrEmptyPath = errors.New("empty path")

// FindChildByName returns the first live child of parentID with exactly the
// given name, in display order. Names are not unique; first match wins.
func FindChildByName(db *store.DB, parentID, name string) (*model.TaskNode, bool) {
	for _, c := range db.ChildrenOf(parentID, false) {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// AddFromPath walks a slash path through the live tree, reusing each segment
// that already exists (exact name match) and creating the rest, so repeating
// the same path is idempotent. Empty segment names are skipped. Returns the
// deepest node on the path.
func AddFromPath(db *store.DB, path string, policy engine.InsertPolicy) (*model.TaskNode, error) {
	r := Tokenize(strings.TrimSpace(path))
	segments := r.Segments
	if rem := r.Remainder; rem != "" {
		segments = append(segments, rem)
	}

	parentID := ""
	var last *model.TaskNode
	for _, name := range segments {
		if name == "" {
			continue
		}
		n, ok := FindChildByName(db, parentID, name)
		if !ok {
			n = engine.CreateNode(db, parentID, name, false, policy.AtTop(parentID))
		}
		parentID = n.ID
		last, _ = db.FindNode(n.ID)
	}
	if last == nil {
		return nil, ErrEmptyPath
	}
	return last, nil
}

// PathString renders the canonical slash path of a node: every ancestor name
// from the root down, each encoded so the result tokenizes back to the same
// segments.
func PathString(db *store.DB, id string) (string, error) {
	n, ok := db.FindNode(id)
	if !ok {
		return "", engine.NotFoundError{Kind: "task", ID: id}
	}
	var names []string
	for {
		names = append(names, n.Name)
		if n.ParentID == nil || strings.TrimSpace(*n.ParentID) == "" {
			break
		}
		parent, ok := db.FindNode(*n.ParentID)
		if !ok {
			break
		}
		n = parent
	}
	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(EncodeSegment(names[i]))
	}
	return b.String(), nil
}
