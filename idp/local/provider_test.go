package local_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/portalhq/go-portal-auth/idp"
	"github.com/portalhq/go-portal-auth/idp/local"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer = "com.portal.auth"
	testEmail  = "ops@example.com"
	testSecret = "derived-secret-1"
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

func testProvider(t *testing.T) *local.Provider {
	t.Helper()

	provider, err := local.NewProvider(testIssuer, testSigningKey)
	require.NoError(t, err)
	return provider
}

func TestSignInUnknownEmail(t *testing.T) {
	provider := testProvider(t)

	_, err := provider.SignIn(testEmail, testSecret)
	require.ErrorIs(t, err, idp.IdentityNotFoundErr)
}

func TestSignUpThenSignIn(t *testing.T) {
	provider := testProvider(t)

	require.NoError(t, provider.SignUp(testEmail, testSecret))

	creds, err := provider.SignIn(testEmail, testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, creds.UserID)
	require.NotEmpty(t, creds.RefreshToken)
	require.Equal(t, local.DefaultTokenTTL, creds.ExpiresIn)

	// the access token is a verifiable JWT carrying the account identity
	token, err := jwtlib.Parse(creds.AccessToken, func(*jwtlib.Token) (interface{}, error) {
		return testSigningKey, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)

	claims, ok := token.Claims.(jwtlib.MapClaims)
	require.True(t, ok)
	require.Equal(t, testIssuer, claims["iss"])
	require.Equal(t, creds.UserID, claims["sub"])
	require.Equal(t, testEmail, claims["email"])
}

func TestSignInWrongSecret(t *testing.T) {
	provider := testProvider(t)
	require.NoError(t, provider.SignUp(testEmail, testSecret))

	_, err := provider.SignIn(testEmail, "wrong")
	require.ErrorIs(t, err, idp.SecretMismatchErr)
}

func TestSignUpDuplicate(t *testing.T) {
	provider := testProvider(t)
	require.NoError(t, provider.SignUp(testEmail, testSecret))
	require.ErrorIs(t, provider.SignUp(testEmail, testSecret), idp.AlreadyExistsErr)
}

func TestTokenTTLOption(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	provider, err := local.NewProvider(testIssuer, testSigningKey,
		local.WithTokenTTL(15*time.Minute),
		local.WithNowTime(func() time.Time { return now }),
	)
	require.NoError(t, err)

	require.NoError(t, provider.SignUp(testEmail, testSecret))
	creds, err := provider.SignIn(testEmail, testSecret)
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, creds.ExpiresIn)
}
