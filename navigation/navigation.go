package navigation

import "github.com/portalhq/go-portal-auth/sessions"

// Landing routes for each authenticated surface.
const (
	RouteClientDashboard  = "/dashboard"
	RouteAdminDashboard   = "/admin/dashboard"
	RouteSalesDashboard   = "/sales/dashboard"
	RouteSupportDashboard = "/support/dashboard"
)

// Navigator moves the browsing context to a new surface.
type Navigator interface {
	NavigateTo(route string)
}

// NavigatorFunc adapts a plain function to the Navigator interface.
type NavigatorFunc func(route string)

func (f NavigatorFunc) NavigateTo(route string) {
	f(route)
}

// ForRole returns the fixed landing route for a role. Unrecognized roles
// land on the admin dashboard.
func ForRole(role sessions.Role) string {
	switch role {
	case sessions.RoleClient:
		return RouteClientDashboard
	case sessions.RoleSales:
		return RouteSalesDashboard
	case sessions.RoleSupport:
		return RouteSupportDashboard
	default:
		return RouteAdminDashboard
	}
}
