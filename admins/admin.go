package admins

import "time"

// RoleType is the privileged role recorded for a back-office identity.
type RoleType string

const (
	RoleSuperAdmin RoleType = "super_admin" // Full back-office access
	RoleSales      RoleType = "sales"       // Sales dashboard access
	RoleSupport    RoleType = "support"     // Support dashboard access
)

// Admin is a pre-provisioned back-office identity. Records are created out of
// band; this module reads them and touches LastLoginAt on a successful login.
type Admin struct {
	Email       string    `json:"email"`
	Role        RoleType  `json:"role"`
	LastLoginAt time.Time `json:"last_login_at,omitempty"`
}
