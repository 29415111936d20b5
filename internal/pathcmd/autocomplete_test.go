package pathcmd

import (
	"testing"

	"todobar-cli/internal/engine"
	"todobar-cli/internal/store"
)

func buildCompletionTree(t *testing.T) *store.DB {
	t.Helper()
	db := &store.DB{Version: 1}
	for _, path := range []string{
		"/A/B/Notes",
		"/A/B/Drafts",
		"/A/Backlog",
		`/"foo/bar"/Notes`,
		`/"foo/bar"/Release checklist`,
		"/Archive",
	} {
		if _, err := AddFromPath(db, path, engine.InsertPolicy{}); err != nil {
			t.Fatal(err)
		}
	}
	return db
}

func suggestionNames(ac *Autocomplete) []string {
	var names []string
	for _, s := range ac.Suggestions {
		names = append(names, s.Name)
	}
	return names
}

func TestAutocompleteFiltersLastSegment(t *testing.T) {
	t.Parallel()

	db := buildCompletionTree(t)
	ac := NewAutocomplete()

	ac.Update(db, "/A/B")
	got := suggestionNames(ac)
	if len(got) != 2 || got[0] != "B" || got[1] != "Backlog" {
		t.Fatalf("suggestions = %v", got)
	}
	if ac.Index != 0 {
		t.Fatalf("index = %d", ac.Index)
	}

	// Substring match is case-insensitive.
	ac.Update(db, "/A/back")
	got = suggestionNames(ac)
	if len(got) != 1 || got[0] != "Backlog" {
		t.Fatalf("suggestions = %v", got)
	}
}

func TestAutocompleteTrailingSlashListsChildren(t *testing.T) {
	t.Parallel()

	db := buildCompletionTree(t)
	ac := NewAutocomplete()

	ac.Update(db, "/A/B/")
	got := suggestionNames(ac)
	if len(got) != 2 || got[0] != "Drafts" || got[1] != "Notes" {
		t.Fatalf("suggestions = %v", got)
	}

	ac.Update(db, "/")
	if len(ac.Suggestions) != 3 {
		t.Fatalf("root suggestions = %v", suggestionNames(ac))
	}
}

func TestAutocompleteSuggestionPaths(t *testing.T) {
	t.Parallel()

	db := &store.DB{Version: 1}
	for _, path := range []string{"/A/B/C", "/A/B/D"} {
		if _, err := AddFromPath(db, path, engine.InsertPolicy{}); err != nil {
			t.Fatal(err)
		}
	}

	ac := NewAutocomplete()
	ac.Update(db, "/A/B/")
	var paths []string
	for _, s := range ac.Suggestions {
		paths = append(paths, s.Path)
	}
	if len(paths) != 2 || paths[0] != "/A/B/C" || paths[1] != "/A/B/D" {
		t.Fatalf("paths = %v", paths)
	}
}

func TestAutocompleteQuotedSegment(t *testing.T) {
	t.Parallel()

	db := buildCompletionTree(t)
	ac := NewAutocomplete()

	ac.Update(db, `/"foo/bar"/No`)
	got := suggestionNames(ac)
	if len(got) != 1 || got[0] != "Notes" {
		t.Fatalf("suggestions = %v", got)
	}
	if ac.Suggestions[0].Path != `/"foo/bar"/Notes` {
		t.Fatalf("path = %q", ac.Suggestions[0].Path)
	}
}

func TestAutocompleteUnresolvedSegmentYieldsNothing(t *testing.T) {
	t.Parallel()

	db := buildCompletionTree(t)
	ac := NewAutocomplete()

	ac.Update(db, "/Nope/x")
	if len(ac.Suggestions) != 0 || ac.Index != -1 {
		t.Fatalf("suggestions = %v index = %d", suggestionNames(ac), ac.Index)
	}
	if _, ok := ac.Current(); ok {
		t.Fatal("no current suggestion expected")
	}
}

func TestAutocompleteCycleAndApply(t *testing.T) {
	t.Parallel()

	db := buildCompletionTree(t)
	ac := NewAutocomplete()

	ac.Update(db, "/A/B/")
	ac.SelectNext()
	cur, ok := ac.Current()
	if !ok || cur.Name != "Notes" {
		t.Fatalf("current = %+v", cur)
	}
	ac.SelectNext() // wraps
	cur, _ = ac.Current()
	if cur.Name != "Drafts" {
		t.Fatalf("current after wrap = %+v", cur)
	}
	ac.SelectPrevious()
	cur, _ = ac.Current()
	if cur.Name != "Notes" {
		t.Fatalf("current after prev = %+v", cur)
	}

	path, ok := ac.Apply(db)
	if !ok || path != "/A/B/Notes" {
		t.Fatalf("apply = %q", path)
	}
	// Applying re-runs the update on the exact suggestion text.
	if got := suggestionNames(ac); len(got) != 1 || got[0] != "Notes" {
		t.Fatalf("post-apply suggestions = %v", got)
	}

	ac.Clear()
	if ac.HasSuggestions() || ac.Index != -1 {
		t.Fatal("clear incomplete")
	}
}
