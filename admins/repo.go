package admins

import "time"

// Repo is the identity-store boundary for back-office records. GetByEmail is
// an exact-match lookup expected to resolve at most one record.
type Repo interface {
	Upsert(admin *Admin) error
	GetByEmail(email string) (*Admin, error)
	TouchLastLogin(email string, at time.Time) error
}
