package config

type Auth struct{}

var _ AuthConfig = Auth{}

// GetSessionNamespace returns the prefix for durable session storage keys.
func (Auth) GetSessionNamespace() string {
	return GetEnv("SESSION_NAMESPACE", "portal_session")
}

// GetIssuer returns the issuer claim stamped on minted access tokens.
func (Auth) GetIssuer() string {
	return GetEnv("TOKEN_ISSUER", "com.portal.auth")
}

// GetIdentitySigningKey returns the key used to sign access tokens. Empty
// means a random per-process key is generated at startup.
func (Auth) GetIdentitySigningKey() string {
	return GetEnv("IDENTITY_SIGNING_KEY", "")
}

// GetCredentialSecret returns the secret the login flow derives per-email
// identity-provider credentials from.
func (Auth) GetCredentialSecret() string {
	return GetEnv("CREDENTIAL_SECRET", "")
}
