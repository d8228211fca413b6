package storage

import "sync"

// Keys persisted across sessions. These mirror what the web client keeps
// in browser localStorage: plain strings and JSON blobs, no encryption.
const (
	KeyToken          = "token"
	KeyUser           = "user"
	KeyLastReference  = "last_order_reference"
	KeyPendingOrderID = "pending_order_id"
)

// Store is the persisted key/value capability injected into the flow
// packages so they can be tested without a real browser or filesystem.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// InMemoryStore is used for tests.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]string)}
}

func (s *InMemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *InMemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *InMemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
