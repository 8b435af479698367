package assets

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// cacheState records what the index knows about an asset key.
type cacheState int

const (
	cacheUnknown cacheState = iota
	cacheStored
	cacheMissing
)

// CacheIndex is the sqlite side of the asset cache: one row per asset key,
// either pointing at a cached payload file or recording that the remote
// store answered 404.
type CacheIndex struct {
	db *sql.DB
}

func OpenIndex(path string) (*CacheIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initIndex(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &CacheIndex{db: db}, nil
}

func initIndex(db *sql.DB) error {
	// WAL keeps concurrent render processes from tripping over each other.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("pragma: %w", err)
		}
	}
	const schema = `
CREATE TABLE IF NOT EXISTS assets (
	key        TEXT PRIMARY KEY,
	state      INTEGER NOT NULL,
	rel_path   TEXT NOT NULL DEFAULT '',
	size       INTEGER NOT NULL DEFAULT 0,
	sha256     TEXT NOT NULL DEFAULT '',
	fetched_at TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

func (ix *CacheIndex) Close() error {
	if ix == nil || ix.db == nil {
		return nil
	}
	return ix.db.Close()
}

// Lookup returns what the index knows about a key, plus the cached payload's
// relative path when state is cacheStored.
func (ix *CacheIndex) Lookup(key string) (cacheState, string) {
	if ix == nil {
		return cacheUnknown, ""
	}
	var state int
	var relPath string
	err := ix.db.QueryRow(`SELECT state, rel_path FROM assets WHERE key = ?`, key).Scan(&state, &relPath)
	if err != nil {
		return cacheUnknown, ""
	}
	return cacheState(state), relPath
}

// RecordStored notes a successfully fetched payload.
func (ix *CacheIndex) RecordStored(key, relPath string, payload []byte) error {
	if ix == nil {
		return nil
	}
	sum := sha256.Sum256(payload)
	_, err := ix.db.Exec(`
INSERT INTO assets(key, state, rel_path, size, sha256, fetched_at)
VALUES(?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
	state=excluded.state, rel_path=excluded.rel_path, size=excluded.size,
	sha256=excluded.sha256, fetched_at=excluded.fetched_at`,
		key, int(cacheStored), relPath, len(payload), hex.EncodeToString(sum[:]),
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// RecordMissing notes a definitive remote 404 for a key.
func (ix *CacheIndex) RecordMissing(key string) error {
	if ix == nil {
		return nil
	}
	_, err := ix.db.Exec(`
INSERT INTO assets(key, state, fetched_at) VALUES(?, ?, ?)
ON CONFLICT(key) DO UPDATE SET state=excluded.state, fetched_at=excluded.fetched_at`,
		key, int(cacheMissing), time.Now().UTC().Format(time.RFC3339))
	return err
}
