package otp

import (
	"errors"
	"sync"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo
// interface.
type InMemoryRepo struct {
	mu    sync.RWMutex
	codes map[string]*Code
}

// NewInMemoryRepo creates a new in-memory passcode repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		codes: make(map[string]*Code),
	}
}

// Insert stores the record for its email
func (r *InMemoryRepo) Insert(code *Code) error {
	if code == nil {
		return errors.New("code cannot be nil")
	}
	if code.Email == "" {
		return errors.New("email cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *code
	r.codes[code.Email] = &stored
	return nil
}

// GetByEmail retrieves the record for an email
func (r *InMemoryRepo) GetByEmail(email string) (*Code, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	code, ok := r.codes[email]
	if !ok {
		return nil, errors.New("not found")
	}

	found := *code
	return &found, nil
}

// DeleteByEmail removes the record for an email, if any
func (r *InMemoryRepo) DeleteByEmail(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.codes, email)
	return nil
}
