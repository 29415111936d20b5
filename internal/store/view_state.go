package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const viewStateFileName = "view_state.json"

// ViewState is the per-workspace collapse state: which nodes currently hide
// their children. It is an explicit context object owned by the session that
// also owns the tree, passed into operations rather than read globally.
//
// Persistence is intentionally best effort: callers tolerate missing or
// invalid data.
type ViewState struct {
	Version   int             `json:"version"`
	Collapsed map[string]bool `json:"-"`

	// Wire form: a sorted id list keeps the JSON diff-friendly.
	CollapsedIDs []string `json:"collapsedIds,omitempty"`
}

func NewViewState() *ViewState {
	return &ViewState{Version: 1, Collapsed: map[string]bool{}}
}

func (v *ViewState) IsCollapsed(id string) bool {
	return v != nil && v.Collapsed[strings.TrimSpace(id)]
}

func (v *ViewState) SetCollapsed(id string, collapsed bool) {
	id = strings.TrimSpace(id)
	if v == nil || id == "" {
		return
	}
	if v.Collapsed == nil {
		v.Collapsed = map[string]bool{}
	}
	if collapsed {
		v.Collapsed[id] = true
	} else {
		delete(v.Collapsed, id)
	}
}

func (v *ViewState) ToggleCollapsed(id string) {
	v.SetCollapsed(id, !v.IsCollapsed(id))
}

// Prune drops collapse entries whose id no longer resolves anywhere in the
// tree. Invoked after any structural mutation that removes nodes.
func (v *ViewState) Prune(db *DB) {
	if v == nil || len(v.Collapsed) == 0 {
		return
	}
	for id := range v.Collapsed {
		if _, ok := db.FindNode(id); !ok {
			delete(v.Collapsed, id)
		}
	}
}

// RemoveAll drops the given ids from the collapse set regardless of whether
// they still resolve (used ahead of a cascading delete).
func (v *ViewState) RemoveAll(ids map[string]bool) {
	if v == nil {
		return
	}
	for id := range ids {
		delete(v.Collapsed, id)
	}
}

func (s Store) viewStatePath() string {
	return filepath.Join(s.Dir, viewStateFileName)
}

func (s Store) LoadViewState() (*ViewState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return NewViewState(), nil
	}
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.viewStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewViewState(), nil
		}
		return nil, err
	}
	var v ViewState
	if err := json.Unmarshal(b, &v); err != nil {
		return NewViewState(), nil
	}
	if v.Version == 0 {
		v.Version = 1
	}
	v.Collapsed = make(map[string]bool, len(v.CollapsedIDs))
	for _, id := range v.CollapsedIDs {
		id = strings.TrimSpace(id)
		if id != "" {
			v.Collapsed[id] = true
		}
	}
	v.CollapsedIDs = nil
	return &v, nil
}

func (s Store) SaveViewState(v *ViewState) error {
	if v == nil {
		return nil
	}
	if strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if v.Version == 0 {
		v.Version = 1
	}
	ids := make([]string, 0, len(v.Collapsed))
	for id := range v.Collapsed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	wire := ViewState{Version: v.Version, CollapsedIDs: ids}
	b, err := json.MarshalIndent(&wire, "", "  ")
	if err != nil {
		return err
	}
	path := s.viewStatePath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
