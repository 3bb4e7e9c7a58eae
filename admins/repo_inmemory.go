package admins

import (
	"errors"
	"sync"
	"time"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo
// interface, keyed by email.
type InMemoryRepo struct {
	mu     sync.RWMutex
	admins map[string]*Admin
}

// NewInMemoryRepo creates a new in-memory admin repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		admins: make(map[string]*Admin),
	}
}

// Upsert stores or replaces the record for an email
func (r *InMemoryRepo) Upsert(admin *Admin) error {
	if admin == nil {
		return errors.New("admin cannot be nil")
	}
	if admin.Email == "" {
		return errors.New("email cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external modifications
	stored := *admin
	r.admins[admin.Email] = &stored
	return nil
}

// GetByEmail retrieves the record for an exact email match
func (r *InMemoryRepo) GetByEmail(email string) (*Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admin, ok := r.admins[email]
	if !ok {
		return nil, errors.New("not found")
	}

	found := *admin
	return &found, nil
}

// TouchLastLogin updates the last login instant for an email
func (r *InMemoryRepo) TouchLastLogin(email string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	admin, ok := r.admins[email]
	if !ok {
		return errors.New("not found")
	}
	admin.LastLoginAt = at
	return nil
}
