package sessions

// Role is one of the fixed authentication scopes a browsing context may hold.
// Each role owns at most one stored session, and roles are fully independent:
// the same context can be logged in as a client and as an admin at once.
type Role string

const (
	RoleClient  Role = "client"
	RoleAdmin   Role = "admin"
	RoleSales   Role = "sales"
	RoleSupport Role = "support"
)

// AllRoles lists every role in fixed enumeration order. ActiveRoles and any
// UI listing iterate in this order so output stays deterministic.
var AllRoles = []Role{RoleClient, RoleAdmin, RoleSales, RoleSupport}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleAdmin, RoleSales, RoleSupport:
		return true
	}
	return false
}
