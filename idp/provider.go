package idp

import "time"

// Credentials is the session material minted by the identity provider.
type Credentials struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// Provider is the identity-provider boundary used to establish a session for
// an email once its passcode has been verified.
type Provider interface {
	// SignIn exchanges an email and secret for session credentials. Returns
	// IdentityNotFoundErr when no account exists for the email; callers may
	// provision one and retry.
	SignIn(email, secret string) (*Credentials, error)
	// SignUp provisions an account for the email.
	SignUp(email, secret string) error
}
