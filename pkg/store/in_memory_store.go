package store

import "sync"

// InMemoryStore is an in-memory settings store, used in tests and anywhere
// persistence is not wanted.
type InMemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

var _ SettingsStore = (*InMemoryStore)(nil)

// NewInMemoryStore initializes an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Load returns the stored blob, or nil if nothing has been saved.
func (s *InMemoryStore) Load() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

// Save replaces the stored blob.
func (s *InMemoryStore) Save(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make([]byte, len(data))
	copy(s.data, data)
	return nil
}
