package flowrepo

import (
	"time"

	"github.com/portalhq/go-portal-auth/authflow"
)

// Entry is one in-flight admin login flow.
type Entry struct {
	Flow      *authflow.Flow
	CreatedAt time.Time
}

// Repo holds in-flight login flows keyed by flow ID.
type Repo interface {
	Upsert(flowID string, entry *Entry) error
	Get(flowID string) (*Entry, error)
	Delete(flowID string) error
	// DeleteOlderThan evicts abandoned flows and returns how many were removed.
	DeleteOlderThan(cutoff time.Time) int
}
