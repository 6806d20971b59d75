// Package cache is an opt-in, sqlite-backed store of compiled SIR,
// keyed on the program's source text plus the run options that affect
// compilation output. Disabled by default, so "Persisted state: none"
// stays true of a plain umo run; cmd/umo enables it with --cache.
//
// The cache key idiom (sha256 over the normalized inputs, truncated to
// a short hex string) is grounded on the teacher's own
// internal/ext/cache.go computeKey. No part of the teacher's own tree
// actually imports modernc.org/sqlite despite it sitting in go.mod; this
// package is that dependency finally given somewhere to run.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/funvibe/umo/internal/sir"
	"github.com/funvibe/umo/internal/sir/golden"
)

// Cache stores compiled sir.ProgramUnits under a content-derived key in
// a single sqlite database file.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if absent) the sqlite database at path and
// ensures its schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: opening %s: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS compiled_units (
	key  TEXT PRIMARY KEY,
	sir  BLOB NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: creating schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key computes the cache key for a source text under a given overflow
// mode. sircompile's output does not currently depend on the overflow
// mode; it is folded into the key alongside the source text so entries
// stay separate per mode.
func Key(source string, overflowMode string) string {
	h := sha256.New()
	h.Write([]byte(source))
	h.Write([]byte("\x00"))
	h.Write([]byte(overflowMode))
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// Lookup returns the cached ProgramUnit for key, or (nil, nil) on a
// cache miss.
func (c *Cache) Lookup(key string) (*sir.ProgramUnit, error) {
	var data []byte
	err := c.db.QueryRow(`SELECT sir FROM compiled_units WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: looking up %s: %w", key, err)
	}
	pu, err := golden.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("cache: decoding cached entry %s: %w", key, err)
	}
	return pu, nil
}

// Store saves pu under key, overwriting any prior entry for the same
// key (a key collision only happens when the exact same source text and
// overflow mode were compiled before, so overwriting is always safe).
func (c *Cache) Store(key string, pu *sir.ProgramUnit) error {
	data, err := golden.Marshal(pu)
	if err != nil {
		return fmt.Errorf("cache: encoding entry %s: %w", key, err)
	}
	_, err = c.db.Exec(`INSERT OR REPLACE INTO compiled_units (key, sir) VALUES (?, ?)`, key, data)
	if err != nil {
		return fmt.Errorf("cache: storing %s: %w", key, err)
	}
	return nil
}
