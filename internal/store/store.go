package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"todobar-cli/internal/model"
)

// DB is the in-memory task forest. All engine operations mutate it directly;
// persistence happens once per user-visible command via Store.Save.
type DB struct {
	Version   int                  `json:"version"`
	Nodes     []model.TaskNode     `json:"nodes"`
	Templates []model.TaskTemplate `json:"templates"`

	// Derived indexes for fast lookups. Not persisted; rebuilt lazily and
	// dropped by Invalidate after any structural mutation.
	idxBuilt    bool                 `json:"-"`
	idxByID     map[string]int       `json:"-"`
	idxChildren map[siblingKey][]int `json:"-"`
}

// siblingKey identifies a sibling group: same parent, same live/template flag.
// Root groups use parent == "".
type siblingKey struct {
	parent   string
	template bool
}

type Store struct {
	Dir string
}

const storeDirName = ".todobar"

func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, storeDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, storeDirName), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.SaveSQLite(context.Background(), db)
}

func parentKeyOf(n *model.TaskNode) siblingKey {
	parent := ""
	if n.ParentID != nil {
		parent = strings.TrimSpace(*n.ParentID)
	}
	return siblingKey{parent: parent, template: n.Template}
}

func (db *DB) ensureIndexes() {
	if db == nil || db.idxBuilt {
		return
	}
	db.idxByID = make(map[string]int, len(db.Nodes))
	db.idxChildren = map[siblingKey][]int{}
	for i := range db.Nodes {
		n := &db.Nodes[i]
		db.idxByID[n.ID] = i
		db.idxChildren[parentKeyOf(n)] = append(db.idxChildren[parentKeyOf(n)], i)
	}
	db.idxBuilt = true
}

// Invalidate drops the derived indexes. Call after any structural mutation
// (add/remove/reparent); plain field edits on existing nodes don't need it.
func (db *DB) Invalidate() {
	if db == nil {
		return
	}
	db.idxBuilt = false
	db.idxByID = nil
	db.idxChildren = nil
}

// FindNode resolves an id to a live pointer into Nodes. A false result is a
// normal outcome (stale reference after a cascading delete), never fatal.
func (db *DB) FindNode(id string) (*model.TaskNode, bool) {
	if db == nil {
		return nil, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	db.ensureIndexes()
	i, ok := db.idxByID[id]
	if !ok {
		return nil, false
	}
	return &db.Nodes[i], true
}

func (db *DB) FindTemplate(id string) (*model.TaskTemplate, bool) {
	if db == nil {
		return nil, false
	}
	for i := range db.Templates {
		if db.Templates[i].ID == id {
			return &db.Templates[i], true
		}
	}
	return nil, false
}

// ChildrenOf returns the sibling group under parentID (empty string for
// roots) sorted ascending by DisplayOrder, with CreatedAt then ID as the
// deterministic tie-break so equal orders never reshuffle between calls.
func (db *DB) ChildrenOf(parentID string, template bool) []*model.TaskNode {
	if db == nil {
		return nil
	}
	db.ensureIndexes()
	key := siblingKey{parent: strings.TrimSpace(parentID), template: template}
	idxs := db.idxChildren[key]
	out := make([]*model.TaskNode, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, &db.Nodes[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return CompareNodes(*out[i], *out[j]) < 0
	})
	return out
}

// RootTasks returns the live top-level tasks in display order.
func (db *DB) RootTasks() []*model.TaskNode {
	return db.ChildrenOf("", false)
}

// CompareNodes orders siblings by DisplayOrder, CreatedAt, then ID.
func CompareNodes(a, b model.TaskNode) int {
	if a.DisplayOrder != b.DisplayOrder {
		if a.DisplayOrder < b.DisplayOrder {
			return -1
		}
		return 1
	}
	if a.CreatedAt.Before(b.CreatedAt) {
		return -1
	}
	if a.CreatedAt.After(b.CreatedAt) {
		return 1
	}
	if a.ID < b.ID {
		return -1
	}
	if a.ID > b.ID {
		return 1
	}
	return 0
}

func (db *DB) AddNode(n model.TaskNode) {
	db.Nodes = append(db.Nodes, n)
	db.Invalidate()
}

// RemoveNodes drops every node whose id is in ids.
func (db *DB) RemoveNodes(ids map[string]bool) {
	if len(ids) == 0 {
		return
	}
	kept := db.Nodes[:0]
	for i := range db.Nodes {
		if ids[db.Nodes[i].ID] {
			continue
		}
		kept = append(kept, db.Nodes[i])
	}
	db.Nodes = kept
	db.Invalidate()
}

func (db *DB) AddTemplate(t model.TaskTemplate) {
	db.Templates = append(db.Templates, t)
}

func (db *DB) RemoveTemplate(id string) {
	kept := db.Templates[:0]
	for i := range db.Templates {
		if db.Templates[i].ID == id {
			continue
		}
		kept = append(kept, db.Templates[i])
	}
	db.Templates = kept
}

// Snapshot deep-copies the persisted state so a failed save can roll the
// in-memory transaction back (Restore). Indexes are not copied.
func (db *DB) Snapshot() *DB {
	snap := &DB{Version: db.Version}
	snap.Nodes = make([]model.TaskNode, len(db.Nodes))
	copy(snap.Nodes, db.Nodes)
	snap.Templates = make([]model.TaskTemplate, len(db.Templates))
	copy(snap.Templates, db.Templates)
	return snap
}

func (db *DB) Restore(snap *DB) {
	if snap == nil {
		return
	}
	db.Version = snap.Version
	db.Nodes = make([]model.TaskNode, len(snap.Nodes))
	copy(db.Nodes, snap.Nodes)
	db.Templates = make([]model.TaskTemplate, len(snap.Templates))
	copy(db.Templates, snap.Templates)
	db.Invalidate()
}
