// Package catalog caches perceptual hashes in SQLite so re-running an
// evaluator over an unchanged archive does not re-decode every image.
package catalog

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Catalog wraps the hash-cache database.
type Catalog struct {
	db *sql.DB
}

// Open opens (creating if needed) the catalog at path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS media (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		size INTEGER,
		modified_at TEXT,
		perceptual_hash TEXT,
		indexed_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_media_path ON media(path);
	CREATE INDEX IF NOT EXISTS idx_media_hash ON media(perceptual_hash);`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Lookup returns the cached hash for path when both size and mtime still
// match the stored values. ok is false on miss or staleness.
func (c *Catalog) Lookup(path string, size int64, modTime time.Time) (hash string, ok bool, err error) {
	var storedSize int64
	var storedMod string
	row := c.db.QueryRow(
		"SELECT size, modified_at, perceptual_hash FROM media WHERE path = ?", path)
	if err := row.Scan(&storedSize, &storedMod, &hash); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("catalog lookup for %s: %w", path, err)
	}

	if storedSize != size || hash == "" {
		return "", false, nil
	}
	storedTime, err := time.Parse(time.RFC3339Nano, storedMod)
	if err != nil {
		return "", false, nil
	}
	if modTime.After(storedTime) {
		return "", false, nil
	}
	return hash, true, nil
}

// Store records the hash for path, replacing any previous entry.
func (c *Catalog) Store(path string, size int64, modTime time.Time, hash string) error {
	stmt, err := c.db.Prepare(`
		INSERT OR REPLACE INTO media (path, size, modified_at, perceptual_hash, indexed_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("cannot prepare statement for %s: %w", path, err)
	}
	defer stmt.Close()

	// Nanosecond precision: real mtimes carry sub-second parts, and a
	// truncated stored value would make every file look newer than its
	// own cache entry.
	_, err = stmt.Exec(path, size, modTime.Format(time.RFC3339Nano), hash,
		time.Now().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("cannot store entry for %s: %w", path, err)
	}
	return nil
}

// Stats summarizes the catalog contents.
type Stats struct {
	TotalEntries int
	UniqueHashes int
}

// GetStats returns entry counts for the completion summary.
func (c *Catalog) GetStats() (*Stats, error) {
	var stats Stats
	if err := c.db.QueryRow("SELECT COUNT(*) FROM media").Scan(&stats.TotalEntries); err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	if err := c.db.QueryRow(
		"SELECT COUNT(DISTINCT perceptual_hash) FROM media WHERE perceptual_hash != ''").
		Scan(&stats.UniqueHashes); err != nil {
		return nil, fmt.Errorf("failed to count hashes: %w", err)
	}
	return &stats, nil
}
