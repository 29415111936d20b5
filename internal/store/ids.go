package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 8 chars base32 ~= 40 bits of space.
func newRandomID(prefix string) (string, error) {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

func idExists(db *DB, id string) bool {
	for i := range db.Nodes {
		if db.Nodes[i].ID == id {
			return true
		}
	}
	for i := range db.Templates {
		if db.Templates[i].ID == id {
			return true
		}
	}
	return false
}

// NextID mints a fresh unique id with a readable kind prefix
// (task-xxx, tmpl-xxx).
func (db *DB) NextID(prefix string) string {
	for i := 0; i < 10; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			break
		}
		if !idExists(db, id) {
			return id
		}
	}
	// Extremely unlikely fallback: counter suffix keyed to current size.
	for i := len(db.Nodes) + len(db.Templates); ; i++ {
		id := fmt.Sprintf("%s-%d", prefix, i)
		if !idExists(db, id) {
			return id
		}
	}
}
