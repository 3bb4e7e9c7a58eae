package flowrepo

import (
	"errors"
	"sync"
	"time"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewInMemoryRepo creates a new in-memory flow repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		entries: make(map[string]*Entry),
	}
}

// Upsert stores or updates an in-flight flow
func (r *InMemoryRepo) Upsert(flowID string, entry *Entry) error {
	if flowID == "" {
		return errors.New("flowID cannot be empty")
	}
	if entry == nil {
		return errors.New("entry cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[flowID] = entry
	return nil
}

// Get retrieves an in-flight flow by ID
func (r *InMemoryRepo) Get(flowID string) (*Entry, error) {
	if flowID == "" {
		return nil, errors.New("flowID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[flowID]
	if !ok {
		return nil, errors.New("flow not found")
	}
	return entry, nil
}

// Delete removes an in-flight flow
func (r *InMemoryRepo) Delete(flowID string) error {
	if flowID == "" {
		return errors.New("flowID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, flowID)
	return nil
}

// DeleteOlderThan evicts flows created before the cutoff
func (r *InMemoryRepo) DeleteOlderThan(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for flowID, entry := range r.entries {
		if entry.CreatedAt.Before(cutoff) {
			delete(r.entries, flowID)
			removed++
		}
	}
	return removed
}
