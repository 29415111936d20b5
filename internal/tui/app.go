package tui

import (
	"fmt"
	"strings"

	"todobar-cli/internal/clipboard"
	"todobar-cli/internal/engine"
	"todobar-cli/internal/pathcmd"
	"todobar-cli/internal/selection"
	"todobar-cli/internal/store"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

type mode int

const (
	modeNormal mode = iota
	modePath
	modeSubtask
	modeRename
)

type appModel struct {
	store store.Store
	db    *store.DB
	view  *store.ViewState
	sel   *selection.Selection

	insert engine.InsertPolicy
	clear  engine.ClearPolicy

	rows []engine.VisibleRow

	mode            mode
	input           textinput.Model
	ac              *pathcmd.Autocomplete
	renameID        string
	subtaskParentID string

	width    int
	height   int
	showHelp bool

	flash    string
	flashErr bool
}

func newAppModel(s store.Store, db *store.DB) appModel {
	view, err := s.LoadViewState()
	if err != nil {
		view = store.NewViewState()
	}
	view.Prune(db)

	settings, err := s.LoadSettings()
	if err != nil {
		settings = &store.Settings{Version: 1}
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 0

	m := appModel{
		store:  s,
		db:     db,
		view:   view,
		sel:    selection.New(),
		insert: engine.InsertPolicy{RootAtTop: settings.AddToTopRoot, ChildAtTop: settings.AddToTopChild},
		clear:  engine.ClearPolicy{StruckDescendants: settings.ClearStruckDescendants, SkipHidden: settings.SkipHidden()},
		input:  ti,
		ac:     pathcmd.NewAutocomplete(),
	}
	m.refresh()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m *appModel) refresh() {
	m.rows = engine.VisibleOrder(m.db, m.view)
}

func (m *appModel) visibleIDs() []string {
	ids := make([]string, len(m.rows))
	for i, r := range m.rows {
		ids[i] = r.Node.ID
	}
	return ids
}

// cursorID resolves the row the cursor sits on; with nothing selected the
// first visible row stands in.
func (m *appModel) cursorID() string {
	if id := m.sel.CursorID(); id != "" {
		return id
	}
	if len(m.rows) > 0 {
		return m.rows[0].Node.ID
	}
	return ""
}

// targetIDs is what structural actions operate on: the selection, or the
// cursor row when nothing is selected.
func (m *appModel) targetIDs() []string {
	if !m.sel.IsEmpty() {
		return m.sel.IDs()
	}
	if id := m.cursorID(); id != "" {
		return []string{id}
	}
	return nil
}

func (m *appModel) setFlash(s string) {
	m.flash = s
	m.flashErr = false
}

func (m *appModel) setFlashErr(s string) {
	m.flash = s
	m.flashErr = true
}

// persist writes the tree to disk, rolling the in-memory state back to snap
// on failure so the screen never shows state that was not saved.
func (m *appModel) persist(snap *store.DB) bool {
	if err := m.store.Save(m.db); err != nil {
		m.db.Restore(snap)
		m.refresh()
		m.setFlashErr("save failed: " + err.Error())
		return false
	}
	return true
}

func (m *appModel) saveView() {
	// Collapse state is cosmetic; failing to save it is not worth a modal.
	_ = m.store.SaveViewState(m.view)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.updatePrompt(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m appModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""

	switch msg.String() {
	case "ctrl+c", "q":
		m.saveView()
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "esc":
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		m.sel.EndShift()
		m.sel.Clear()
		return m, nil

	case "j", "down":
		m.sel.Step(true, m.sel.ShiftActive(), m.visibleIDs())
		return m, nil
	case "k", "up":
		m.sel.Step(false, m.sel.ShiftActive(), m.visibleIDs())
		return m, nil
	case "J", "shift+down":
		m.sel.Step(true, true, m.visibleIDs())
		return m, nil
	case "K", "shift+up":
		m.sel.Step(false, true, m.visibleIDs())
		return m, nil

	case " ":
		if id := m.cursorID(); id != "" {
			m.sel.Toggle(id, m.visibleIDs())
		}
		return m, nil

	case "v":
		if m.sel.ShiftActive() {
			m.sel.EndShift()
			return m, nil
		}
		if id := m.cursorID(); id != "" {
			m.sel.BeginShift(id, m.visibleIDs())
		}
		return m, nil

	case "ctrl+a":
		m.sel.SelectAll(m.visibleIDs())
		return m, nil

	case "x", "enter":
		ids := m.targetIDs()
		if len(ids) == 0 {
			return m, nil
		}
		snap := m.db.Snapshot()
		for _, id := range ids {
			if n, ok := m.db.FindNode(id); ok {
				n.Completed = !n.Completed
			}
		}
		m.persist(snap)
		m.refresh()
		return m, nil

	case "a":
		m.mode = modePath
		m.input.SetValue("/")
		m.input.CursorEnd()
		m.input.Focus()
		m.ac.Update(m.db, m.input.Value())
		return m, textinput.Blink

	case "A":
		id := m.cursorID()
		if id == "" {
			return m, nil
		}
		m.mode = modeSubtask
		m.subtaskParentID = id
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case "r":
		id := m.cursorID()
		n, ok := m.db.FindNode(id)
		if !ok {
			return m, nil
		}
		m.mode = modeRename
		m.renameID = id
		m.input.SetValue(n.Name)
		m.input.CursorEnd()
		m.input.Focus()
		return m, textinput.Blink

	case "d":
		ids := m.targetIDs()
		if len(ids) == 0 {
			return m, nil
		}
		snap := m.db.Snapshot()
		if err := engine.DeleteMany(m.db, ids, m.view, m.sel); err != nil {
			m.setFlashErr(err.Error())
			return m, nil
		}
		if m.persist(snap) {
			m.saveView()
			m.setFlash(fmt.Sprintf("deleted %d", len(ids)))
		}
		m.refresh()
		m.sel.PruneToVisible(m.visibleIDs())
		return m, nil

	case "D":
		ids := m.targetIDs()
		if len(ids) == 0 {
			return m, nil
		}
		snap := m.db.Snapshot()
		created, err := engine.DuplicateMany(m.db, ids, m.visibleIDs())
		if err != nil {
			m.setFlashErr(err.Error())
			return m, nil
		}
		if m.persist(snap) {
			m.refresh()
			m.sel.SetMany(created, m.visibleIDs())
			m.setFlash(fmt.Sprintf("duplicated %d", len(created)))
		}
		return m, nil

	case "alt+up", "alt+down":
		ids := m.targetIDs()
		if len(ids) == 0 {
			return m, nil
		}
		dir := engine.Up
		if msg.String() == "alt+down" {
			dir = engine.Down
		}
		snap := m.db.Snapshot()
		var moved bool
		if len(ids) == 1 {
			var err error
			moved, err = engine.Move(m.db, ids[0], dir)
			if err != nil {
				m.setFlashErr(err.Error())
				return m, nil
			}
		} else {
			moved = engine.MoveMany(m.db, ids, dir)
		}
		if moved {
			m.persist(snap)
			m.refresh()
		}
		return m, nil

	case "tab":
		id := m.cursorID()
		n, ok := m.db.FindNode(id)
		if !ok {
			return m, nil
		}
		if len(m.db.ChildrenOf(n.ID, n.Template)) == 0 {
			return m, nil
		}
		m.view.ToggleCollapsed(n.ID)
		m.saveView()
		m.refresh()
		m.sel.PruneToVisible(m.visibleIDs())
		return m, nil

	case "C":
		snap := m.db.Snapshot()
		cleared, err := engine.ClearCompleted(m.db, m.clear, m.view, m.sel)
		if err != nil {
			m.setFlashErr(err.Error())
			return m, nil
		}
		if len(cleared) == 0 {
			m.setFlash("nothing to clear")
			return m, nil
		}
		if m.persist(snap) {
			m.saveView()
			m.setFlash(fmt.Sprintf("cleared %d", len(cleared)))
		}
		m.refresh()
		m.sel.PruneToVisible(m.visibleIDs())
		return m, nil

	case "y":
		ids := m.targetIDs()
		text := engine.SelectionText(m.db, ids, m.view)
		if text == "" {
			return m, nil
		}
		if err := clipboard.Copy(text); err != nil {
			m.setFlashErr(err.Error())
			return m, nil
		}
		m.setFlash("copied selection")
		return m, nil

	case "Y":
		id := m.cursorID()
		if id == "" {
			return m, nil
		}
		p, err := pathcmd.PathString(m.db, id)
		if err != nil {
			m.setFlashErr(err.Error())
			return m, nil
		}
		if err := clipboard.Copy(p); err != nil {
			m.setFlashErr(err.Error())
			return m, nil
		}
		m.setFlash("copied " + p)
		return m, nil
	}

	return m, nil
}

func (m appModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.saveView()
		return m, tea.Quit

	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		m.ac.Clear()
		return m, nil

	case "tab":
		if m.mode == modePath {
			m.ac.SelectNext()
		}
		return m, nil
	case "shift+tab":
		if m.mode == modePath {
			m.ac.SelectPrevious()
		}
		return m, nil

	case "right":
		if m.mode == modePath {
			if path, ok := m.ac.Apply(m.db); ok {
				// Descend: the trailing slash starts the next segment.
				m.input.SetValue(path + "/")
				m.input.CursorEnd()
				m.ac.Update(m.db, m.input.Value())
				return m, nil
			}
		}

	case "enter":
		return m.submitPrompt()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modePath {
		m.ac.Update(m.db, m.input.Value())
	}
	return m, cmd
}

func (m appModel) submitPrompt() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	mode := m.mode
	m.mode = modeNormal
	m.input.Blur()
	m.ac.Clear()

	switch mode {
	case modePath:
		if strings.TrimSpace(strings.Trim(value, "/ ")) == "" {
			return m, nil
		}
		snap := m.db.Snapshot()
		n, err := pathcmd.AddFromPath(m.db, value, m.insert)
		if err != nil {
			m.setFlashErr(err.Error())
			return m, nil
		}
		if m.persist(snap) {
			m.refresh()
			m.sel.Replace(n.ID)
			m.sel.PruneToVisible(m.visibleIDs())
		}

	case modeSubtask:
		name := strings.TrimSpace(value)
		if name == "" {
			return m, nil
		}
		parent, ok := m.db.FindNode(m.subtaskParentID)
		if !ok {
			m.setFlashErr("task not found: " + m.subtaskParentID)
			return m, nil
		}
		snap := m.db.Snapshot()
		n := engine.CreateNode(m.db, parent.ID, name, false, m.insert.AtTop(parent.ID))
		if m.persist(snap) {
			m.view.SetCollapsed(m.subtaskParentID, false)
			m.saveView()
			m.refresh()
			m.sel.Replace(n.ID)
		}

	case modeRename:
		name := strings.TrimSpace(value)
		n, ok := m.db.FindNode(m.renameID)
		if !ok {
			m.setFlashErr("task not found: " + m.renameID)
			return m, nil
		}
		// Committing an empty edit keeps the old name.
		if name == "" || name == n.Name {
			return m, nil
		}
		snap := m.db.Snapshot()
		n.Name = name
		if m.persist(snap) {
			m.refresh()
		}
	}
	return m, nil
}

func (m appModel) View() string {
	if m.width <= 0 {
		m.width = 80
	}
	if m.height <= 0 {
		m.height = 24
	}
	if m.showHelp {
		return renderHelp(m.width)
	}

	var b strings.Builder
	b.WriteString(styleHeader.Render("todobar"))
	b.WriteString(styleMuted.Render(fmt.Sprintf("  %d tasks", len(m.rows))))
	b.WriteString("\n")

	bodyH := m.height - 2
	if m.mode != modeNormal {
		bodyH -= 2 + len(m.ac.Suggestions)
	}
	if bodyH < 1 {
		bodyH = 1
	}

	cursor := m.cursorIndex()
	offset := 0
	if cursor >= bodyH {
		offset = cursor - bodyH + 1
	}
	if offset > len(m.rows)-bodyH {
		offset = len(m.rows) - bodyH
	}
	if offset < 0 {
		offset = 0
	}

	for i := offset; i < len(m.rows) && i < offset+bodyH; i++ {
		b.WriteString(m.renderRow(i, i == cursor))
		b.WriteString("\n")
	}
	if len(m.rows) == 0 {
		b.WriteString(styleMuted.Render("  no tasks yet; press a to add one"))
		b.WriteString("\n")
	}

	if m.mode != modeNormal {
		b.WriteString(m.renderPrompt())
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *appModel) cursorIndex() int {
	id := m.sel.CursorID()
	if id == "" {
		return -1
	}
	for i, r := range m.rows {
		if r.Node.ID == id {
			return i
		}
	}
	return -1
}

func (m *appModel) renderRow(i int, isCursor bool) string {
	r := m.rows[i]
	n := r.Node

	marker := "  "
	if len(m.db.ChildrenOf(n.ID, n.Template)) > 0 {
		if m.view.IsCollapsed(n.ID) {
			marker = "▸ "
		} else {
			marker = "▾ "
		}
	}
	box := "[ ] "
	if n.Completed {
		box = "[x] "
	}
	prefix := "  "
	if isCursor {
		prefix = "› "
	}

	line := prefix + strings.Repeat("  ", r.Depth) + marker + box + n.Name
	if xansi.StringWidth(line) > m.width {
		line = xansi.Cut(line, 0, m.width)
	}
	switch {
	case m.sel.Contains(n.ID):
		return styleSelected.Render(line)
	case n.Completed:
		return styleDone.Render(line)
	case isCursor:
		return styleCursor.Render(line)
	}
	return line
}

func (m *appModel) renderPrompt() string {
	var b strings.Builder
	label := map[mode]string{
		modePath:    "add path",
		modeSubtask: "new subtask",
		modeRename:  "rename",
	}[m.mode]
	b.WriteString(styleMuted.Render(label))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	for i, sug := range m.ac.Suggestions {
		line := "  " + sug.Name
		if i == m.ac.Index {
			line = styleSelected.Render(line)
		} else {
			line = styleMuted.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *appModel) renderFooter() string {
	if m.flash != "" {
		if m.flashErr {
			return styleFlashErr.Render(m.flash)
		}
		return m.flash
	}
	if m.mode != modeNormal {
		return styleMuted.Render("enter submit · tab cycle · right accept · esc cancel")
	}
	return styleMuted.Render("a add · space select · d delete · D duplicate · tab fold · ? help · q quit")
}
