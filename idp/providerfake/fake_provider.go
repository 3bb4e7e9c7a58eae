package providerfake

import (
	"fmt"
	"sync"
	"time"

	"github.com/portalhq/go-portal-auth/idp"
)

var _ idp.Provider = (*FakeProvider)(nil)

// FakeProvider is a scriptable in-memory Provider for tests. Unknown emails
// return IdentityNotFoundErr until SignUp registers them, and either call can
// be forced to fail.
type FakeProvider struct {
	mu      sync.Mutex
	known   map[string]bool
	signIns int
	signUps int

	SignInErr error // forced SignIn failure (after the not-found check)
	SignUpErr error // forced SignUp failure
	TokenTTL  int64 // seconds; zero means no expiry on minted credentials
}

func NewFakeProvider(knownEmails ...string) *FakeProvider {
	known := make(map[string]bool, len(knownEmails))
	for _, email := range knownEmails {
		known[email] = true
	}
	return &FakeProvider{known: known}
}

func (p *FakeProvider) SignIn(email, secret string) (*idp.Credentials, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.signIns++
	if !p.known[email] {
		return nil, idp.IdentityNotFoundErr
	}
	if p.SignInErr != nil {
		return nil, p.SignInErr
	}
	return &idp.Credentials{
		UserID:       "user-" + email,
		AccessToken:  fmt.Sprintf("access-%s-%d", email, p.signIns),
		RefreshToken: fmt.Sprintf("refresh-%s-%d", email, p.signIns),
		ExpiresIn:    time.Duration(p.TokenTTL) * time.Second,
	}, nil
}

func (p *FakeProvider) SignUp(email, secret string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.signUps++
	if p.SignUpErr != nil {
		return p.SignUpErr
	}
	if p.known[email] {
		return idp.AlreadyExistsErr
	}
	p.known[email] = true
	return nil
}

// SignInCalls reports how many times SignIn was invoked.
func (p *FakeProvider) SignInCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signIns
}

// SignUpCalls reports how many times SignUp was invoked.
func (p *FakeProvider) SignUpCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signUps
}
