package sessions

import "sync"

// InMemoryStorage is a thread-safe in-memory implementation of Storage. It
// keeps sessions for the process lifetime only, which is enough when no
// external store is configured.
type InMemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Storage = (*InMemoryStorage)(nil)

// NewInMemoryStorage creates a new in-memory storage
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		values: make(map[string]string),
	}
}

// Get retrieves the value stored for a key
func (s *InMemoryStorage) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", NotFoundErr
	}
	return value, nil
}

// Set stores or replaces the value for a key
func (s *InMemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Remove deletes the value for a key. Removing an absent key is not an error.
func (s *InMemoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
