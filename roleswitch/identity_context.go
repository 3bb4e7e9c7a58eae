package roleswitch

import (
	"sync"

	"github.com/portalhq/go-portal-auth/sessions"
)

// IdentityContext tracks the identity currently presented for one scope of
// the portal. Two instances exist per browsing context: one for the client
// surface and one for the back-office surface. Instances are constructor
// injected so tests can run with isolated state.
type IdentityContext struct {
	mu       sync.RWMutex
	role     sessions.Role
	identity *sessions.Identity
}

// NewIdentityContext creates an empty context.
func NewIdentityContext() *IdentityContext {
	return &IdentityContext{}
}

// Set records the identity currently presented for this scope.
func (c *IdentityContext) Set(role sessions.Role, identity *sessions.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.role = role
	c.identity = identity
}

// Clear empties the context.
func (c *IdentityContext) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.role = ""
	c.identity = nil
}

// Role returns the current role; ok is false when the context is empty.
func (c *IdentityContext) Role() (role sessions.Role, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.identity == nil {
		return "", false
	}
	return c.role, true
}

// Identity returns the current identity, or nil when the context is empty.
func (c *IdentityContext) Identity() *sessions.Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}
