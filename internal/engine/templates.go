package engine

import (
	"strings"
	"time"

	"todobar-cli/internal/model"
	"todobar-cli/internal/store"
)

// Templates are reusable task structures kept apart from the live tree. Each
// template owns a container node (template-flagged, never rendered as a task)
// whose children are the template's top-level tasks; instantiation clones
// those children into the live roots with completion stripped.

// CreateTemplate registers a new empty template and its container node.
func CreateTemplate(db *store.DB, name string) (*model.TaskTemplate, error) {
	name = strings.TrimSpace(name)
	now := time.Now().UTC()
	rootID := db.NextID("task")
	db.AddNode(model.TaskNode{
		ID:        rootID,
		Name:      name,
		Template:  true,
		CreatedAt: now,
	})
	id := db.NextID("tmpl")
	db.AddTemplate(model.TaskTemplate{
		ID:         id,
		Name:       name,
		RootNodeID: rootID,
		CreatedAt:  now,
	})
	t, _ := db.FindTemplate(id)
	return t, nil
}

// AddTemplateTask appends a task to a template, either at its top level
// (empty parentID) or under an existing node in the template's subtree.
func AddTemplateTask(db *store.DB, templateID, parentID, name string) (*model.TaskNode, error) {
	t, ok := db.FindTemplate(strings.TrimSpace(templateID))
	if !ok {
		return nil, errNotFound("template", templateID)
	}
	parentID = strings.TrimSpace(parentID)
	if parentID == "" {
		parentID = t.RootNodeID
	} else {
		p, ok := db.FindNode(parentID)
		if !ok || !p.Template {
			return nil, errNotFound("task", parentID)
		}
	}
	return CreateNode(db, parentID, strings.TrimSpace(name), true, false), nil
}

// DeleteTemplate removes a template: its container subtree and its registry
// row.
func DeleteTemplate(db *store.DB, id string, view *store.ViewState) error {
	t, ok := db.FindTemplate(strings.TrimSpace(id))
	if !ok {
		return errNotFound("template", id)
	}
	rootID := t.RootNodeID
	templateID := t.ID
	if _, ok := db.FindNode(rootID); ok {
		if err := DeleteMany(db, []string{rootID}, view, nil); err != nil {
			return err
		}
	}
	db.RemoveTemplate(templateID)
	return nil
}

// InstantiateTemplate clones a template's tasks into the live root group:
// fresh ids, template flag and completion stripped, relative order preserved.
// The block lands at the top or bottom of the roots per policy. Returns the
// ids of the new top-level tasks in order.
func InstantiateTemplate(db *store.DB, id string, policy InsertPolicy) ([]string, error) {
	t, ok := db.FindTemplate(strings.TrimSpace(id))
	if !ok {
		return nil, errNotFound("template", id)
	}
	tops := db.ChildrenOf(t.RootNodeID, true)
	if len(tops) == 0 {
		return nil, nil
	}
	type topRef struct {
		id   string
		name string
	}
	refs := make([]topRef, len(tops))
	for i, n := range tops {
		refs[i] = topRef{id: n.ID, name: n.Name}
	}

	base := InsertionOrder(db, "", false, policy.RootAtTop)
	if policy.RootAtTop {
		// A block of k nodes needs k slots below the current minimum.
		base -= len(refs) - 1
	}
	created := make([]string, 0, len(refs))
	for i, ref := range refs {
		cloneID, ok := cloneSubtree(db, ref.id, nil, base+i, ref.name, cloneOptions{toLive: true})
		if ok {
			created = append(created, cloneID)
		}
	}
	Resequence(db, "", false)
	return created, nil
}
