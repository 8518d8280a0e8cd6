// Package store persists the catalog and its sync fingerprint in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/catalog"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS catalog (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	payload    TEXT NOT NULL,
	stored_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sync_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const fingerprintKey = "fingerprint"

// DB wraps a sql.DB with catalog persistence operations. The catalog lives in
// a single row as its canonical JSON form; the fingerprint is written in a
// separate statement so the two can be ordered by the sync cycle.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Get returns the persisted catalog's raw JSON, or apperr.ErrNoCatalog when
// nothing has been synced yet.
func (db *DB) Get() ([]byte, error) {
	var payload string
	err := db.conn.QueryRow(`SELECT payload FROM catalog WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNoCatalog
	}
	if err != nil {
		return nil, fmt.Errorf("store: get catalog: %w", err)
	}
	return []byte(payload), nil
}

// Put replaces the persisted catalog atomically.
func (db *DB) Put(c *catalog.Catalog) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("store: marshal catalog: %w", err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO catalog (id, payload, stored_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload   = excluded.payload,
			stored_at = excluded.stored_at
	`, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store: put catalog: %w", err)
	}
	return nil
}

// Fingerprint returns the stored freshness token, or empty string when none
// has been recorded.
func (db *DB) Fingerprint() (string, error) {
	var value string
	err := db.conn.QueryRow(`SELECT value FROM sync_state WHERE key = ?`, fingerprintKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: get fingerprint: %w", err)
	}
	return value, nil
}

// PutFingerprint records the freshness token for the persisted catalog.
// Callers must only write it after the catalog itself has been stored.
func (db *DB) PutFingerprint(value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO sync_state (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, fingerprintKey, value)
	if err != nil {
		return fmt.Errorf("store: put fingerprint: %w", err)
	}
	return nil
}
