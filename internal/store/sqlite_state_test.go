package store

import (
	"context"
	"testing"
	"time"

	"todobar-cli/internal/model"
)

func TestSQLiteSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	db := &DB{Version: 1}
	db.AddNode(model.TaskNode{ID: "task-root", Name: "Work", DisplayOrder: 0, CreatedAt: created})
	db.AddNode(model.TaskNode{ID: "task-child", ParentID: strPtr("task-root"), Name: "Inbox", Completed: true, DisplayOrder: 0, CreatedAt: created})
	db.AddNode(model.TaskNode{ID: "task-tmpl", Name: "Weekly", Template: true, CreatedAt: created})
	db.AddTemplate(model.TaskTemplate{ID: "tmpl-1", Name: "Weekly", RootNodeID: "task-tmpl", CreatedAt: created})

	if err := s.SaveSQLite(ctx, db); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadSQLite(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != 1 {
		t.Fatalf("version = %d", got.Version)
	}
	if len(got.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(got.Nodes))
	}
	child, ok := got.FindNode("task-child")
	if !ok {
		t.Fatal("task-child missing")
	}
	if child.ParentID == nil || *child.ParentID != "task-root" {
		t.Fatalf("child parent = %v", child.ParentID)
	}
	if !child.Completed {
		t.Fatal("child completion lost")
	}
	if !child.CreatedAt.Equal(created) {
		t.Fatalf("child createdAt = %v", child.CreatedAt)
	}
	tmpl, ok := got.FindTemplate("tmpl-1")
	if !ok || tmpl.RootNodeID != "task-tmpl" {
		t.Fatalf("template = %+v", tmpl)
	}
	root, _ := got.FindNode("task-tmpl")
	if !root.Template {
		t.Fatal("template flag lost")
	}
}

func TestSQLiteSaveReplacesAll(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	db := &DB{Version: 1}
	db.AddNode(model.TaskNode{ID: "task-a", Name: "a"})
	db.AddNode(model.TaskNode{ID: "task-b", Name: "b"})
	if err := s.SaveSQLite(ctx, db); err != nil {
		t.Fatal(err)
	}

	db.RemoveNodes(map[string]bool{"task-b": true})
	if err := s.SaveSQLite(ctx, db); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadSQLite(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Nodes) != 1 || got.Nodes[0].ID != "task-a" {
		t.Fatalf("nodes = %+v", got.Nodes)
	}
}

func TestLoadMissingFileYieldsEmptyState(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Nodes) != 0 || len(got.Templates) != 0 {
		t.Fatalf("expected empty state, got %+v", got)
	}
	if got.Version != 1 {
		t.Fatalf("version = %d", got.Version)
	}
}
