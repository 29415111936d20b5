package engine

import (
	"testing"

	"todobar-cli/internal/store"
)

func TestTemplateLifecycle(t *testing.T) {
	t.Parallel()

	db := &store.DB{Version: 1}
	seedNode(db, "task-live", "", "Existing", 0, false)

	tmpl, err := CreateTemplate(db, "Weekly review")
	if err != nil {
		t.Fatal(err)
	}
	if tmpl.Name != "Weekly review" || tmpl.RootNodeID == "" {
		t.Fatalf("template = %+v", tmpl)
	}
	root, ok := db.FindNode(tmpl.RootNodeID)
	if !ok || !root.Template {
		t.Fatalf("container node = %+v", root)
	}

	first, err := AddTemplateTask(db, tmpl.ID, "", "Clear inbox")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := AddTemplateTask(db, tmpl.ID, "", "Plan week"); err != nil {
		t.Fatal(err)
	}
	if _, err := AddTemplateTask(db, tmpl.ID, first.ID, "Archive mail"); err != nil {
		t.Fatal(err)
	}

	// Template tasks never leak into the live tree.
	if got := db.RootTasks(); len(got) != 1 || got[0].Name != "Existing" {
		t.Fatalf("live roots = %v", got)
	}
	tops := db.ChildrenOf(tmpl.RootNodeID, true)
	if len(tops) != 2 || tops[0].Name != "Clear inbox" || tops[1].Name != "Plan week" {
		t.Fatalf("template tasks = %v", tops)
	}

	if _, err := AddTemplateTask(db, "tmpl-missing", "", "x"); !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestInstantiateTemplate(t *testing.T) {
	t.Parallel()

	db := &store.DB{Version: 1}
	seedNode(db, "task-live", "", "Existing", 0, false)

	tmpl, err := CreateTemplate(db, "Release")
	if err != nil {
		t.Fatal(err)
	}
	first, err := AddTemplateTask(db, tmpl.ID, "", "Tag build")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := AddTemplateTask(db, tmpl.ID, first.ID, "Verify checksum"); err != nil {
		t.Fatal(err)
	}
	if _, err := AddTemplateTask(db, tmpl.ID, "", "Announce"); err != nil {
		t.Fatal(err)
	}
	// Mark a template task completed; instantiation must strip it.
	f, _ := db.FindNode(first.ID)
	f.Completed = true

	created, err := InstantiateTemplate(db, tmpl.ID, InsertPolicy{})
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 2 {
		t.Fatalf("created = %v", created)
	}

	roots := db.RootTasks()
	names := rootNames(db)
	if len(roots) != 3 || names[0] != "Existing" || names[1] != "Tag build" || names[2] != "Announce" {
		t.Fatalf("roots = %v", names)
	}
	assertContiguous(t, db, "")

	tag, _ := db.FindNode(created[0])
	if tag.Template || tag.Completed {
		t.Fatalf("instantiated task = %+v", tag)
	}
	kids := db.ChildrenOf(tag.ID, false)
	if len(kids) != 1 || kids[0].Name != "Verify checksum" {
		t.Fatalf("instantiated children = %v", kids)
	}

	// Top insertion places the whole block first, in template order.
	if _, err := InstantiateTemplate(db, tmpl.ID, InsertPolicy{RootAtTop: true}); err != nil {
		t.Fatal(err)
	}
	names = rootNames(db)
	if names[0] != "Tag build" || names[1] != "Announce" || names[2] != "Existing" {
		t.Fatalf("roots after top insert = %v", names)
	}
	assertContiguous(t, db, "")
}

func TestDeleteTemplate(t *testing.T) {
	t.Parallel()

	db := &store.DB{Version: 1}
	tmpl, err := CreateTemplate(db, "Gone soon")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := AddTemplateTask(db, tmpl.ID, "", "a"); err != nil {
		t.Fatal(err)
	}

	view := store.NewViewState()
	if err := DeleteTemplate(db, tmpl.ID, view); err != nil {
		t.Fatal(err)
	}
	if _, ok := db.FindTemplate(tmpl.ID); ok {
		t.Fatal("template row survived")
	}
	if len(db.Nodes) != 0 {
		t.Fatalf("template nodes survived: %d", len(db.Nodes))
	}

	if err := DeleteTemplate(db, tmpl.ID, view); !IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
