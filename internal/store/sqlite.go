package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Schema for the progress store. A single kv table keeps the layout
// open for future named records without a migration.
const schema = `
CREATE TABLE IF NOT EXISTS progress (
    name        TEXT PRIMARY KEY,
    value       TEXT NOT NULL,
    updated_at  INTEGER NOT NULL
);
`

// SQLite persists records in a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and ensures the
// schema exists. Parent directories are created as needed.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("store: sqlite path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("store: create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Load implements Store.
func (s *SQLite) Load() ([]byte, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM progress WHERE name = ?`, ProgressRecord,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: load: %w", err)
	}
	return []byte(value), nil
}

// Save implements Store.
func (s *SQLite) Save(data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO progress (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		ProgressRecord, string(data), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLite) Close() error { return s.db.Close() }
