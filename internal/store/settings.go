package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const settingsFileName = "settings.json"

// Settings holds the persisted policy flags that parameterize engine
// operations. The engine never reads these ambiently; callers translate them
// into explicit engine.InsertPolicy / engine.ClearPolicy values.
type Settings struct {
	Version int `json:"version"`

	// New root tasks / new subtasks go to the top of their sibling group
	// instead of the bottom.
	AddToTopRoot  bool `json:"addToTopRoot,omitempty"`
	AddToTopChild bool `json:"addToTopChild,omitempty"`

	// Allow clear-completed to remove a completed task even when part of its
	// subtree is still open. When false, only fully-completed subtrees clear.
	ClearStruckDescendants bool `json:"clearStruckDescendants,omitempty"`

	// Skip clearing completed tasks hidden under a collapsed, incomplete
	// ancestor, so the user never loses tasks they can't currently see.
	// Pointer so an absent key defaults to true.
	SkipHiddenDescendants *bool `json:"skipHiddenDescendants,omitempty"`
}

func (s *Settings) SkipHidden() bool {
	if s == nil || s.SkipHiddenDescendants == nil {
		return true
	}
	return *s.SkipHiddenDescendants
}

func (s Store) settingsPath() string {
	return filepath.Join(s.Dir, settingsFileName)
}

func (s Store) LoadSettings() (*Settings, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.settingsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{Version: 1}, nil
		}
		return nil, err
	}
	var st Settings
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &Settings{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveSettings(st *Settings) error {
	if st == nil {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	path := s.settingsPath()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
