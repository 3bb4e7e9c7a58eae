package otp

import "time"

const (
	// CodeLength is the fixed number of digits in an issued code.
	CodeLength = 6
	// TTL is how long an issued code stays redeemable. Fixed contract, not
	// configurable per call.
	TTL = 10 * time.Minute
)

// Code is a one-time passcode bound to an email address. At most one live
// code exists per email; issuing a new one supersedes the old. Records are
// never updated in place.
type Code struct {
	Email     string    `json:"email"`
	Value     string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
