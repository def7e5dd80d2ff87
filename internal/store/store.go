// Package store persists the progress record behind a small
// backend-agnostic interface. Three backends ship: sqlite for hosts
// that want a real database file, file for a plain JSON blob, and
// memory for tests and dry runs.
package store

import (
	"errors"
	"fmt"
)

// ProgressRecord is the single well-known record name all backends
// store under.
const ProgressRecord = "user-progress"

// ErrNotFound is returned by Load when no record has been saved yet.
var ErrNotFound = errors.New("store: record not found")

// Store reads and writes the serialized progress record.
type Store interface {
	// Load returns the last saved record, or ErrNotFound.
	Load() ([]byte, error)
	// Save replaces the record durably before returning.
	Save(data []byte) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Open constructs the named backend. The path is ignored by the
// memory backend.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendFile:
		return OpenFile(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", backend)
	}
}
