// Package selection maintains an ordered multi-selection with anchor/cursor
// semantics over a visibility-flattened traversal of the task tree.
//
// The selection never mutates tree structure; it tracks identifiers only and
// tolerates ids that no longer resolve. Every operation takes the caller's
// freshly computed visible-order id sequence, so collapse state stays with
// the session that owns the tree.
package selection

import "strings"

type Selection struct {
	ids         []string
	set         map[string]bool
	anchorID    string
	cursorID    string
	shiftActive bool
}

func New() *Selection {
	return &Selection{set: map[string]bool{}}
}

// IDs returns the selected ids in selection order (a copy).
func (s *Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Selection) Contains(id string) bool { return s.set[id] }
func (s *Selection) Len() int                { return len(s.ids) }
func (s *Selection) IsEmpty() bool           { return len(s.ids) == 0 }
func (s *Selection) AnchorID() string        { return s.anchorID }
func (s *Selection) CursorID() string        { return s.cursorID }
func (s *Selection) ShiftActive() bool       { return s.shiftActive }

func (s *Selection) Clear() {
	s.ids = nil
	s.set = map[string]bool{}
	s.anchorID = ""
	s.cursorID = ""
}

func (s *Selection) Replace(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		s.Clear()
		return
	}
	s.ids = []string{id}
	s.set = map[string]bool{id: true}
	s.anchorID = id
	s.cursorID = id
}

// Toggle removes id when selected, else appends it and makes it the new
// anchor+cursor, re-sorting the selection to match visible order (orphaned
// ids keep their prior relative order at the end).
func (s *Selection) Toggle(id string, visible []string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	if s.set[id] {
		kept := s.ids[:0]
		for _, x := range s.ids {
			if x != id {
				kept = append(kept, x)
			}
		}
		s.ids = kept
		delete(s.set, id)
		s.reanchor()
		return
	}
	s.ids = append(s.ids, id)
	s.set[id] = true
	s.anchorID = id
	s.cursorID = id
	s.ids = OrderLikeVisible(s.ids, visible)
}

// Extend sets the selection to the closed visible-order range between the
// resolved anchor and toID. Degrades to Replace when toID is not visible.
func (s *Selection) Extend(toID string, visible []string) {
	toID = strings.TrimSpace(toID)
	tIdx := indexOf(visible, toID)
	if tIdx < 0 {
		s.Replace(toID)
		return
	}

	anchor := ""
	aIdx := -1
	for _, candidate := range []string{s.anchorID, s.cursorID, s.first()} {
		if candidate == "" {
			continue
		}
		if i := indexOf(visible, candidate); i >= 0 {
			anchor = candidate
			aIdx = i
			break
		}
	}
	if aIdx < 0 {
		anchor = toID
		aIdx = tIdx
	}

	lo, hi := aIdx, tIdx
	if lo > hi {
		lo, hi = hi, lo
	}
	s.ids = append([]string(nil), visible[lo:hi+1]...)
	s.set = make(map[string]bool, len(s.ids))
	for _, id := range s.ids {
		s.set[id] = true
	}
	s.anchorID = anchor
	s.cursorID = toID
}

// SetMany replaces the selection with ids, ordered like the visible list;
// anchor lands on the first member, cursor on the last.
func (s *Selection) SetMany(ids []string, visible []string) {
	s.Clear()
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || s.set[id] {
			continue
		}
		s.ids = append(s.ids, id)
		s.set[id] = true
	}
	if len(s.ids) == 0 {
		return
	}
	s.ids = OrderLikeVisible(s.ids, visible)
	s.anchorID = s.ids[0]
	s.cursorID = s.ids[len(s.ids)-1]
}

func (s *Selection) SelectAll(visible []string) {
	if len(visible) == 0 {
		s.Clear()
		return
	}
	s.ids = append([]string(nil), visible...)
	s.set = make(map[string]bool, len(s.ids))
	for _, id := range s.ids {
		s.set[id] = true
	}
	s.anchorID = s.ids[0]
	s.cursorID = s.ids[len(s.ids)-1]
}

// Step moves the cursor one visible position (clamped, no wraparound). With
// extend it recomputes the anchor-cursor range; without it the selection
// collapses to the node under the new cursor. An empty selection starts at
// the first (down) or last (up) visible node.
func (s *Selection) Step(down bool, extend bool, visible []string) {
	if len(visible) == 0 {
		s.Clear()
		return
	}
	cur := indexOf(visible, s.cursorID)
	if s.IsEmpty() || cur < 0 {
		if down {
			s.Replace(visible[0])
		} else {
			s.Replace(visible[len(visible)-1])
		}
		return
	}
	next := cur - 1
	if down {
		next = cur + 1
	}
	if next < 0 {
		next = 0
	}
	if next >= len(visible) {
		next = len(visible) - 1
	}
	if extend {
		s.Extend(visible[next], visible)
		return
	}
	s.Replace(visible[next])
}

// BeginShift / UpdateShift / EndShift wrap a hold-and-drag shift gesture so
// it behaves identically to discrete shift-clicks.
func (s *Selection) BeginShift(id string, visible []string) {
	s.shiftActive = true
	if s.IsEmpty() {
		s.Replace(id)
		return
	}
	s.Extend(id, visible)
}

func (s *Selection) UpdateShift(toID string, visible []string) {
	if !s.shiftActive {
		return
	}
	s.Extend(toID, visible)
}

func (s *Selection) EndShift() {
	s.shiftActive = false
}

// PruneToVisible drops selected ids that are no longer visible (collapse
// changed), preserving survivor order, and re-resolves anchor/cursor.
func (s *Selection) PruneToVisible(visible []string) {
	vis := make(map[string]bool, len(visible))
	for _, id := range visible {
		vis[id] = true
	}
	kept := s.ids[:0]
	for _, id := range s.ids {
		if vis[id] {
			kept = append(kept, id)
		} else {
			delete(s.set, id)
		}
	}
	s.ids = kept
	s.reanchor()
}

// Remove drops the given ids (used ahead of a cascading delete).
func (s *Selection) Remove(gone map[string]bool) {
	if len(gone) == 0 {
		return
	}
	kept := s.ids[:0]
	for _, id := range s.ids {
		if gone[id] {
			delete(s.set, id)
			continue
		}
		kept = append(kept, id)
	}
	s.ids = kept
	s.reanchor()
}

// reanchor restores the invariant: anchor and cursor always resolve to
// members of the selection, or everything clears.
func (s *Selection) reanchor() {
	if len(s.ids) == 0 {
		s.Clear()
		return
	}
	if !s.set[s.anchorID] {
		s.anchorID = s.ids[len(s.ids)-1]
	}
	if !s.set[s.cursorID] {
		s.cursorID = s.ids[len(s.ids)-1]
	}
}

func (s *Selection) first() string {
	if len(s.ids) == 0 {
		return ""
	}
	return s.ids[0]
}

func indexOf(xs []string, id string) int {
	if id == "" {
		return -1
	}
	for i, x := range xs {
		if x == id {
			return i
		}
	}
	return -1
}

// OrderLikeVisible stably reorders ids to match the visible order: ids
// present in visible come first in that relative order, the rest keep their
// prior relative order at the end.
func OrderLikeVisible(ids, visible []string) []string {
	in := make(map[string]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range visible {
		if in[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	for _, id := range ids {
		if !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	return out
}
