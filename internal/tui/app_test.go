package tui

import (
	"strings"
	"testing"

	"todobar-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestApp(t *testing.T) appModel {
	t.Helper()
	s := store.Store{Dir: t.TempDir()}
	db, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	m := newAppModel(s, db)
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return sized.(appModel)
}

func press(t *testing.T, m appModel, msg tea.KeyMsg) appModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(appModel)
}

func pressKey(t *testing.T, m appModel, s string) appModel {
	t.Helper()
	var msg tea.KeyMsg
	switch s {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+a":
		msg = tea.KeyMsg{Type: tea.KeyCtrlA}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "alt+up":
		msg = tea.KeyMsg{Type: tea.KeyUp, Alt: true}
	case "alt+down":
		msg = tea.KeyMsg{Type: tea.KeyDown, Alt: true}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	return press(t, m, msg)
}

func typeText(t *testing.T, m appModel, text string) appModel {
	t.Helper()
	for _, r := range text {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func addPath(t *testing.T, m appModel, path string) appModel {
	t.Helper()
	m = pressKey(t, m, "a")
	if m.mode != modePath {
		t.Fatalf("mode = %d, want path prompt", m.mode)
	}
	// The prompt pre-fills the leading slash.
	m = typeText(t, m, strings.TrimPrefix(path, "/"))
	m = pressKey(t, m, "enter")
	if m.mode != modeNormal {
		t.Fatalf("prompt did not close")
	}
	return m
}

func visibleNames(m appModel) []string {
	var names []string
	for _, r := range m.rows {
		names = append(names, r.Node.Name)
	}
	return names
}

func TestAddPathFromPrompt(t *testing.T) {
	m := newTestApp(t)

	m = addPath(t, m, "/Work/Inbox")

	got := visibleNames(m)
	if len(got) != 2 || got[0] != "Work" || got[1] != "Inbox" {
		t.Fatalf("rows = %v", got)
	}
	// The new leaf is selected.
	if ids := m.sel.IDs(); len(ids) != 1 || ids[0] != m.rows[1].Node.ID {
		t.Fatalf("selection = %v", ids)
	}

	// The tree was persisted, not just staged.
	reloaded, err := m.store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(reloaded.Nodes) != 2 {
		t.Fatalf("persisted nodes = %d", len(reloaded.Nodes))
	}
}

func TestSubtaskPromptExpandsParent(t *testing.T) {
	m := newTestApp(t)
	m = addPath(t, m, "/Work")

	m = pressKey(t, m, "A")
	if m.mode != modeSubtask {
		t.Fatalf("mode = %d", m.mode)
	}
	m = typeText(t, m, "Call supplier")
	m = pressKey(t, m, "enter")

	got := visibleNames(m)
	if len(got) != 2 || got[1] != "Call supplier" {
		t.Fatalf("rows = %v", got)
	}
	if m.rows[1].Depth != 1 {
		t.Fatalf("depth = %d", m.rows[1].Depth)
	}
}

func TestToggleCompletionKey(t *testing.T) {
	m := newTestApp(t)
	m = addPath(t, m, "/Task")

	m = pressKey(t, m, "x")
	if !m.rows[0].Node.Completed {
		t.Fatal("x should complete the task")
	}
	m = pressKey(t, m, "x")
	if m.rows[0].Node.Completed {
		t.Fatal("x should reopen the task")
	}
}

func TestSelectionKeys(t *testing.T) {
	m := newTestApp(t)
	m = addPath(t, m, "/a")
	m = addPath(t, m, "/b")
	m = addPath(t, m, "/c")

	m = pressKey(t, m, "ctrl+a")
	if m.sel.Len() != 3 {
		t.Fatalf("select-all = %v", m.sel.IDs())
	}

	m = pressKey(t, m, "esc")
	if !m.sel.IsEmpty() {
		t.Fatal("esc should clear the selection")
	}

	m = pressKey(t, m, "j")
	if ids := m.sel.IDs(); len(ids) != 1 || ids[0] != m.rows[0].Node.ID {
		t.Fatalf("step down = %v", ids)
	}
	m = pressKey(t, m, "J")
	if m.sel.Len() != 2 {
		t.Fatalf("extend = %v", m.sel.IDs())
	}

	// space toggles the cursor row out again.
	m = pressKey(t, m, " ")
	if m.sel.Len() != 1 {
		t.Fatalf("toggle = %v", m.sel.IDs())
	}
}

func TestDeleteKeyCascades(t *testing.T) {
	m := newTestApp(t)
	m = addPath(t, m, "/Work/Inbox/Old")

	// Cursor sits on the deep leaf; move to the root and delete everything.
	m = pressKey(t, m, "k")
	m = pressKey(t, m, "k")
	if id := m.sel.CursorID(); id != m.rows[0].Node.ID {
		t.Fatalf("cursor = %s", id)
	}
	m = pressKey(t, m, "d")
	if len(m.rows) != 0 {
		t.Fatalf("rows = %v", visibleNames(m))
	}
	reloaded, err := m.store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(reloaded.Nodes) != 0 {
		t.Fatalf("persisted nodes = %d", len(reloaded.Nodes))
	}
}

func TestDuplicateKeySelectsClones(t *testing.T) {
	m := newTestApp(t)
	m = addPath(t, m, "/Task")

	m = pressKey(t, m, "D")
	got := visibleNames(m)
	if len(got) != 2 || got[1] != "Task (copy)" {
		t.Fatalf("rows = %v", got)
	}
	if ids := m.sel.IDs(); len(ids) != 1 || ids[0] != m.rows[1].Node.ID {
		t.Fatalf("selection = %v", ids)
	}
}

func TestMoveKeysMoveSelectionAsBlock(t *testing.T) {
	m := newTestApp(t)
	m = addPath(t, m, "/a")
	m = addPath(t, m, "/b")
	m = addPath(t, m, "/c")

	// Select b and c, then move the pair above a.
	m = pressKey(t, m, "k") // cursor to b
	m = pressKey(t, m, "J") // extend onto c
	if m.sel.Len() != 2 {
		t.Fatalf("selection = %v", m.sel.IDs())
	}
	m = pressKey(t, m, "alt+up")
	got := visibleNames(m)
	if len(got) != 3 || got[0] != "b" || got[1] != "c" || got[2] != "a" {
		t.Fatalf("rows = %v", got)
	}
	// The selection survives the move.
	if m.sel.Len() != 2 {
		t.Fatalf("selection after move = %v", m.sel.IDs())
	}

	// At the boundary nothing moves.
	m = pressKey(t, m, "alt+up")
	if got := visibleNames(m); got[0] != "b" || got[1] != "c" {
		t.Fatalf("rows = %v", got)
	}

	m = pressKey(t, m, "alt+down")
	got = visibleNames(m)
	if got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("rows = %v", got)
	}
}

func TestCollapseKeyHidesChildren(t *testing.T) {
	m := newTestApp(t)
	m = addPath(t, m, "/Work/Inbox")

	m = pressKey(t, m, "k") // cursor to Work
	m = pressKey(t, m, "tab")
	if got := visibleNames(m); len(got) != 1 || got[0] != "Work" {
		t.Fatalf("rows = %v", got)
	}
	if !m.view.IsCollapsed(m.rows[0].Node.ID) {
		t.Fatal("collapse state not set")
	}

	m = pressKey(t, m, "tab")
	if got := visibleNames(m); len(got) != 2 {
		t.Fatalf("rows after expand = %v", got)
	}
}

func TestPathPromptAutocompleteCycle(t *testing.T) {
	m := newTestApp(t)
	m = addPath(t, m, "/Alpha/One")
	m = addPath(t, m, "/Alpha/Two")

	m = pressKey(t, m, "a")
	m = typeText(t, m, "Alpha/")
	if len(m.ac.Suggestions) != 2 {
		t.Fatalf("suggestions = %d", len(m.ac.Suggestions))
	}
	m = pressKey(t, m, "tab")
	if m.ac.Index != 1 {
		t.Fatalf("index = %d", m.ac.Index)
	}
	m = pressKey(t, m, "shift+tab")
	if m.ac.Index != 0 {
		t.Fatalf("index = %d", m.ac.Index)
	}

	// Accepting a suggestion descends into it.
	m = pressKey(t, m, "right")
	if got := m.input.Value(); got != "/Alpha/One/" {
		t.Fatalf("input = %q", got)
	}
	if m.ac.HasSuggestions() {
		t.Fatalf("suggestions = %v", m.ac.Suggestions)
	}

	m = pressKey(t, m, "esc")
	if m.mode != modeNormal || m.ac.HasSuggestions() {
		t.Fatal("esc should close the prompt and clear suggestions")
	}
}

func TestRenamePromptEmptyKeepsName(t *testing.T) {
	m := newTestApp(t)
	m = addPath(t, m, "/Keep me")

	m = pressKey(t, m, "r")
	if m.mode != modeRename {
		t.Fatalf("mode = %d", m.mode)
	}
	if m.input.Value() != "Keep me" {
		t.Fatalf("prefill = %q", m.input.Value())
	}
	// Wipe the input, then submit: the old name stays.
	m.input.SetValue("")
	m = pressKey(t, m, "enter")
	if got := visibleNames(m); got[0] != "Keep me" {
		t.Fatalf("rows = %v", got)
	}

	m = pressKey(t, m, "r")
	m.input.SetValue("")
	m = typeText(t, m, "Renamed")
	m = pressKey(t, m, "enter")
	if got := visibleNames(m); got[0] != "Renamed" {
		t.Fatalf("rows = %v", got)
	}
}

func TestHelpOverlayToggle(t *testing.T) {
	m := newTestApp(t)
	m = pressKey(t, m, "?")
	if !m.showHelp {
		t.Fatal("help should be visible")
	}
	if v := m.View(); v == "" {
		t.Fatal("help view empty")
	}
	m = pressKey(t, m, "esc")
	if m.showHelp {
		t.Fatal("esc should close help")
	}
}

func TestViewRendersRows(t *testing.T) {
	m := newTestApp(t)
	m = addPath(t, m, "/Work/Inbox")

	v := m.View()
	if !strings.Contains(v, "Work") || !strings.Contains(v, "Inbox") {
		t.Fatalf("view missing rows:\n%s", v)
	}
	if !strings.Contains(v, "todobar") {
		t.Fatalf("view missing header:\n%s", v)
	}
}
