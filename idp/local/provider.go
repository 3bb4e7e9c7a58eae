package local

import (
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/portalhq/go-portal-auth/idp"
)

var _ idp.Provider = (*Provider)(nil)

// DefaultTokenTTL is the access token lifetime unless overridden.
const DefaultTokenTTL = time.Hour

// Provider is an in-process identity provider. Accounts are held in memory
// with bcrypt-hashed secrets; sessions are HS256 JWTs plus an opaque refresh
// token.
type Provider struct {
	issuer     string
	signingKey []byte
	tokenTTL   time.Duration
	nowTime    func() time.Time // nowTime function (injectable for testing)

	mu       sync.RWMutex
	accounts map[string]account // keyed by email
}

type account struct {
	id         string
	secretHash string
}

// ProviderOption defines a function type to modify the Provider instance.
type ProviderOption func(*Provider)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ProviderOption {
	return func(p *Provider) {
		p.nowTime = nowFunc
	}
}

// WithTokenTTL sets the access token lifetime.
func WithTokenTTL(ttl time.Duration) ProviderOption {
	return func(p *Provider) {
		p.tokenTTL = ttl
	}
}

// NewProvider initializes a Provider signing tokens for the given issuer.
func NewProvider(issuer string, signingKey []byte, options ...ProviderOption) (*Provider, error) {
	if issuer == "" {
		return nil, errors.New("[NewProvider] issuer is required")
	}
	if len(signingKey) == 0 {
		return nil, errors.New("[NewProvider] signing key is required")
	}

	provider := &Provider{
		issuer:     issuer,
		signingKey: signingKey,
		tokenTTL:   DefaultTokenTTL,
		nowTime:    time.Now,
		accounts:   make(map[string]account),
	}

	for _, opt := range options {
		opt(provider)
	}

	return provider, nil
}

// SignIn exchanges an email and secret for freshly minted credentials.
func (p *Provider) SignIn(email, secret string) (*idp.Credentials, error) {
	p.mu.RLock()
	acc, ok := p.accounts[email]
	p.mu.RUnlock()

	if !ok {
		return nil, idp.IdentityNotFoundErr
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.secretHash), []byte(secret)) != nil {
		return nil, idp.SecretMismatchErr
	}

	return p.mintCredentials(acc.id, email)
}

// SignUp provisions an account for the email with a bcrypt-hashed secret.
func (p *Provider) SignUp(email, secret string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "[Provider.SignUp] hash secret")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.accounts[email]; ok {
		return idp.AlreadyExistsErr
	}
	p.accounts[email] = account{
		id:         uuid.New().String(),
		secretHash: string(hash),
	}
	return nil
}

func (p *Provider) mintCredentials(userID, email string) (*idp.Credentials, error) {
	now := p.nowTime()
	claims := jwtlib.MapClaims{
		"iss":   p.issuer,
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(p.tokenTTL).Unix(),
		"jti":   uuid.New().String(),
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(p.signingKey)
	if err != nil {
		return nil, errors.Wrap(err, "[Provider.mintCredentials] sign token")
	}

	return &idp.Credentials{
		UserID:       userID,
		AccessToken:  signed,
		RefreshToken: uuid.New().String(),
		ExpiresIn:    p.tokenTTL,
	}, nil
}
