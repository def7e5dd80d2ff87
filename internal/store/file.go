package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File persists the progress record as a single JSON file. Writes go
// through a temp file and rename so a crash mid-write never leaves a
// truncated record behind.
type File struct {
	path string
}

// OpenFile prepares a file-backed store at path. The file itself is
// created on first Save.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("store: file path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("store: create directory: %w", err)
		}
	}
	return &File{path: path}, nil
}

// Load implements Store.
func (f *File) Load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", f.path, err)
	}
	return data, nil
}

// Save implements Store.
func (f *File) Save(data []byte) error {
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store: replace %s: %w", f.path, err)
	}
	return nil
}

// Close implements Store.
func (f *File) Close() error { return nil }
