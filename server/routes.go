package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	// Admin login flow
	s.mux.HandleFunc("POST "+RouteAuthEmail, ChainMiddleware(s.SubmitEmailHandler(), s.APIMiddleware()...))
	s.mux.HandleFunc("POST "+RouteAuthResend, ChainMiddleware(s.ResendHandler(), s.APIMiddleware()...))
	s.mux.HandleFunc("POST "+RouteAuthVerify, ChainMiddleware(s.VerifyHandler(), s.APIMiddleware()...))

	// Session coordination
	s.mux.HandleFunc("GET "+RouteAccounts, ChainMiddleware(s.AccountsHandler(), s.APIMiddleware()...))
	s.mux.HandleFunc("POST "+RouteSwitch, ChainMiddleware(s.SwitchHandler(), s.APIMiddleware()...))
	s.mux.HandleFunc("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))

	// Operational endpoints
	s.mux.HandleFunc("GET "+RouteHealthz, ChainMiddleware(s.HealthzHandler(), s.APIMiddleware()...))
	s.mux.HandleFunc("GET "+RouteMetrics, ChainMiddleware(promhttp.Handler().ServeHTTP, s.APIMiddleware()...))
}
