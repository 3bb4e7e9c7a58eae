package server

import (
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/portalhq/go-portal-auth/authflow"
	"github.com/portalhq/go-portal-auth/internal/config"
	"github.com/portalhq/go-portal-auth/internal/metrics"
	"github.com/portalhq/go-portal-auth/roleswitch"
	"github.com/portalhq/go-portal-auth/server/flowrepo"
)

// flowTimeout bounds how long an in-flight login flow may sit abandoned
// before lazy eviction removes it.
const flowTimeout = 15 * time.Minute

// Server exposes the admin login flow and the role switcher over a small
// JSON API.
type Server struct {
	mux       *http.ServeMux
	env       string // Environment (e.g., "development", "production")
	config    config.Config
	services  authflow.Services
	secret    []byte
	flows     flowrepo.Repo
	switcher  *roleswitch.Switcher
	clientCtx *roleswitch.IdentityContext
	adminCtx  *roleswitch.IdentityContext
	metrics   *metrics.Metrics
	nowTime   func() time.Time // nowTime function (injectable for testing)
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServerOption {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

// New initializes the HTTP surface over the core services.
func New(
	cfg config.Config,
	services authflow.Services,
	flows flowrepo.Repo,
	switcher *roleswitch.Switcher,
	clientCtx, adminCtx *roleswitch.IdentityContext,
	m *metrics.Metrics,
	options ...ServerOption,
) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("[server.New] config is required")
	}
	if flows == nil {
		return nil, errors.New("[server.New] flow repo is required")
	}
	if switcher == nil {
		return nil, errors.New("[server.New] switcher is required")
	}
	if clientCtx == nil || adminCtx == nil {
		return nil, errors.New("[server.New] both identity contexts are required")
	}
	if m == nil {
		return nil, errors.New("[server.New] metrics are required")
	}

	secret := []byte(cfg.GetCredentialSecret())
	if len(secret) == 0 {
		return nil, errors.New("[server.New] credential secret is required")
	}

	s := &Server{
		mux:       http.NewServeMux(),
		env:       cfg.GetEnv(),
		config:    cfg,
		services:  services,
		secret:    secret,
		flows:     flows,
		switcher:  switcher,
		clientCtx: clientCtx,
		adminCtx:  adminCtx,
		metrics:   m,
		nowTime:   time.Now,
	}

	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
