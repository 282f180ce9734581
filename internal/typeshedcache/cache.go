// Package typeshedcache persists the result of ingesting a stub file's
// top-level schema (its names, each name's kind, and a class's own
// member names) to an on-disk SQLite database, keyed by the stub
// file's absolute path plus its mtime and size. Re-running dmf against
// an unchanged typeshed checkout skips re-lexing and re-parsing every
// .pyi file it imports; a changed file (different mtime/size) is
// treated as a cache miss and re-ingested.
package typeshedcache

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// Member is one top-level (or, nested, one class-body) binding a stub
// file's AST walk produced: a name, what kind of declaration it came
// from, and — for a class — its own nested Members.
type Member struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"` // "class" | "function" | "property" | "assign" | "module"
	Members  []Member `json:"members,omitempty"`
	ReExport string   `json:"reexport,omitempty"` // for "module": the resolved target module path; for an "assign" re-export: "module.name"
}

// Schema is the cached shape of one ingested stub file.
type Schema struct {
	Members []Member `json:"members"`
}

// Cache wraps the SQLite-backed schema store. Opening is cheap — the
// database file is created on first use, matching the teacher's own
// lazy-init-on-first-access style for process-lifetime resources.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("typeshedcache: open %s: %w", path, err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("typeshedcache: migrate: %w", err)
	}
	return &Cache{db: db}, nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS stub_schema (
	path  TEXT PRIMARY KEY,
	mtime INTEGER NOT NULL,
	size  INTEGER NOT NULL,
	body  TEXT NOT NULL
);
`

// Lookup returns the cached Schema for path if its mtime/size still
// match what was stored, and false otherwise (cache miss: never seen,
// or the file has changed since).
func (c *Cache) Lookup(path string, mtime int64, size int64) (Schema, bool) {
	var storedMtime, storedSize int64
	var body string
	row := c.db.QueryRow(`SELECT mtime, size, body FROM stub_schema WHERE path = ?`, path)
	if err := row.Scan(&storedMtime, &storedSize, &body); err != nil {
		return Schema{}, false
	}
	if storedMtime != mtime || storedSize != size {
		return Schema{}, false
	}
	var s Schema
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		return Schema{}, false
	}
	return s, true
}

// Store records path's freshly computed Schema.
func (c *Cache) Store(path string, mtime, size int64, s Schema) error {
	body, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(
		`INSERT INTO stub_schema(path, mtime, size, body) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET mtime = excluded.mtime, size = excluded.size, body = excluded.body`,
		path, mtime, size, string(body),
	)
	return err
}

// Close releases the underlying database handle.
func (c *Cache) Close() error { return c.db.Close() }
