package sessions

import "time"

// Identity is the user record attached to a stored session. The store treats
// it as opaque; it only cares whether one is present.
type Identity struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Session holds the authentication material for a single role.
type Session struct {
	Identity     *Identity  `json:"identity,omitempty"`
	AccessToken  string     `json:"access_token,omitempty"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"` // nil means never computed
}

// ValidAt reports whether the session is usable at the given instant:
// identity and access token present, and expiry either unknown or still in
// the future.
func (s *Session) ValidAt(now time.Time) bool {
	if s == nil || s.Identity == nil || s.AccessToken == "" {
		return false
	}
	return !s.Expired(now)
}

// Expired reports whether an expiry was computed and has elapsed.
func (s *Session) Expired(now time.Time) bool {
	return s != nil && s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}
