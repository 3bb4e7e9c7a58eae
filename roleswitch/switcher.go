package roleswitch

import (
	"github.com/pkg/errors"

	"github.com/portalhq/go-portal-auth/navigation"
	"github.com/portalhq/go-portal-auth/sessions"
)

// Account is one entry in the switcher listing.
type Account struct {
	Role   sessions.Role `json:"role"`
	Route  string        `json:"route"`
	Active bool          `json:"active"`
}

// Switcher presents the currently authenticated roles and moves the browsing
// context between them. The displayed role comes from the two identity
// contexts, not from the session store, so the listing always agrees with
// whichever surface the user is looking at.
type Switcher struct {
	store     *sessions.Store
	clientCtx *IdentityContext
	adminCtx  *IdentityContext
	navigator navigation.Navigator
}

// NewSwitcher initializes a Switcher with required dependencies.
func NewSwitcher(store *sessions.Store, clientCtx, adminCtx *IdentityContext, navigator navigation.Navigator) (*Switcher, error) {
	if store == nil {
		return nil, errors.New("[NewSwitcher] session store is required")
	}
	if clientCtx == nil || adminCtx == nil {
		return nil, errors.New("[NewSwitcher] both identity contexts are required")
	}
	if navigator == nil {
		return nil, errors.New("[NewSwitcher] navigator is required")
	}
	return &Switcher{
		store:     store,
		clientCtx: clientCtx,
		adminCtx:  adminCtx,
		navigator: navigator,
	}, nil
}

// CurrentRole resolves the displayed role from whichever identity context is
// non-empty. The back-office context wins when both are set, since the
// back-office surface owns the page whenever an admin identity is loaded.
func (s *Switcher) CurrentRole() (sessions.Role, bool) {
	if role, ok := s.adminCtx.Role(); ok {
		return role, true
	}
	if role, ok := s.clientCtx.Role(); ok {
		return role, true
	}
	return "", false
}

// Accounts returns the switcher entries in enumeration order, or nil when
// the switcher should not render: no active roles, or the only active role
// is the one already displayed.
func (s *Switcher) Accounts() []Account {
	active := s.store.ActiveRoles()
	if len(active) == 0 {
		return nil
	}

	current, hasCurrent := s.CurrentRole()
	if len(active) == 1 && hasCurrent && active[0] == current {
		return nil
	}

	accounts := make([]Account, 0, len(active))
	for _, role := range active {
		accounts = append(accounts, Account{
			Role:   role,
			Route:  navigation.ForRole(role),
			Active: hasCurrent && role == current,
		})
	}
	return accounts
}

// RouteFor resolves the landing route for switching to a role. ok is false
// when the role is already the displayed one and no navigation should fire.
func (s *Switcher) RouteFor(role sessions.Role) (string, bool) {
	if current, hasCurrent := s.CurrentRole(); hasCurrent && current == role {
		return "", false
	}
	return navigation.ForRole(role), true
}

// Switch navigates to the landing surface for the role. Switching to the
// role already displayed is a no-op.
func (s *Switcher) Switch(role sessions.Role) {
	route, ok := s.RouteFor(role)
	if !ok {
		return
	}
	s.navigator.NavigateTo(route)
}
