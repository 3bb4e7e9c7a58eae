package otp

// Repo is the persistence boundary for passcode records, keyed by email.
// DeleteByEmail of an absent record is not an error.
type Repo interface {
	Insert(code *Code) error
	GetByEmail(email string) (*Code, error)
	DeleteByEmail(email string) error
}
