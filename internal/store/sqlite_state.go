package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"todobar-cli/internal/model"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "todobar.sqlite"

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when a second process peeks.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			parent_id TEXT NOT NULL,
			name TEXT NOT NULL,
			completed INTEGER NOT NULL,
			template INTEGER NOT NULL,
			display_order INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id, template, display_order);`,
		`CREATE TABLE IF NOT EXISTS templates (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			root_node_id TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return loadStateFromSQLite(ctx, db)
}

// SaveSQLite persists the whole forest with a replace-all write inside one
// transaction: either every staged change lands or none does. This is the
// transactional save/rollback pair the engine relies on.
func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", strconv.Itoa(st.Version)); err != nil {
		return err
	}

	for _, t := range []string{"nodes", "templates"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	for i := range st.Nodes {
		n := &st.Nodes[i]
		raw, _ := json.Marshal(n)
		parent := ""
		if n.ParentID != nil {
			parent = strings.TrimSpace(*n.ParentID)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO nodes(
			id, parent_id, name, completed, template, display_order,
			json, updated_at_unixms
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, parent, n.Name, boolToInt(n.Completed), boolToInt(n.Template), n.DisplayOrder,
			string(raw), nowMs,
		); err != nil {
			return err
		}
	}
	for i := range st.Templates {
		t := &st.Templates[i]
		raw, _ := json.Marshal(t)
		if _, err := tx.ExecContext(ctx, `INSERT INTO templates(id, name, root_node_id, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			t.ID, t.Name, t.RootNodeID, string(raw), nowMs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (*DB, error) {
	out := &DB{Version: 1}

	var v string
	_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, "version").Scan(&v)
	if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
		out.Version = n
	}

	nodes, err := readJSONRows[model.TaskNode](ctx, db, `SELECT json FROM nodes`)
	if err != nil {
		return nil, err
	}
	out.Nodes = nodes

	templates, err := readJSONRows[model.TaskTemplate](ctx, db, `SELECT json FROM templates`)
	if err != nil {
		return nil, err
	}
	out.Templates = templates

	// Ensure nil slices are empty for stable callers.
	if out.Nodes == nil {
		out.Nodes = []model.TaskNode{}
	}
	if out.Templates == nil {
		out.Templates = []model.TaskTemplate{}
	}
	return out, nil
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
