package server

// API routes
const (
	RouteAuthEmail  = "/auth/admin/email"
	RouteAuthResend = "/auth/admin/resend"
	RouteAuthVerify = "/auth/admin/verify"
	RouteAccounts   = "/auth/accounts"
	RouteSwitch     = "/auth/switch"
	RouteLogout     = "/auth/logout"
	RouteHealthz    = "/healthz"
	RouteMetrics    = "/metrics"
)
