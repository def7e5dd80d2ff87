package store

import "sync"

// Memory is an in-process store for tests and ephemeral sessions.
type Memory struct {
	mu    sync.Mutex
	data  []byte
	saved bool

	// SaveCount counts Save calls; tests use it to assert that the
	// ledger only persists on new insertions.
	SaveCount int

	// FailSave, when set, makes Save return this error.
	FailSave error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory { return &Memory{} }

// Load implements Store.
func (m *Memory) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return nil, ErrNotFound
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// Save implements Store.
func (m *Memory) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.data = append(m.data[:0], data...)
	m.saved = true
	m.SaveCount++
	return nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }

// Seed primes the store with a raw record, as if it had been saved by a
// previous session.
func (m *Memory) Seed(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.saved = true
}
