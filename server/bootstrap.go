package server

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/portalhq/go-portal-auth/admins"
	"github.com/portalhq/go-portal-auth/authflow"
	"github.com/portalhq/go-portal-auth/delivery"
	"github.com/portalhq/go-portal-auth/idp/local"
	"github.com/portalhq/go-portal-auth/internal/config"
	"github.com/portalhq/go-portal-auth/internal/metrics"
	"github.com/portalhq/go-portal-auth/navigation"
	"github.com/portalhq/go-portal-auth/otp"
	"github.com/portalhq/go-portal-auth/roleswitch"
	"github.com/portalhq/go-portal-auth/server/flowrepo"
	"github.com/portalhq/go-portal-auth/sessions"
	"github.com/portalhq/go-portal-auth/sessions/redisstorage"
)

// Bootstrap assembles the full service graph from configuration: session
// storage, the back-office identity records, passcode delivery, the identity
// provider and the HTTP surface. The returned poller keeps the active-session
// gauge current; the caller starts and stops it.
func Bootstrap(cfg config.Config) (*Server, *roleswitch.Poller, error) {
	storage, err := sessionStorage(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Bootstrap] session storage")
	}

	store, err := sessions.NewStore(storage, sessions.WithNamespace(cfg.GetSessionNamespace()))
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Bootstrap] session store")
	}

	adminRepo := admins.NewInMemoryRepo()
	if err := seedAdmins(adminRepo, cfg.GetAdminAccounts()); err != nil {
		return nil, nil, errors.Wrap(err, "[Bootstrap] admin accounts")
	}

	verifier, err := admins.NewVerifier(adminRepo)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Bootstrap] verifier")
	}

	otpService, err := otp.NewService(otp.NewInMemoryRepo(), passcodeSender(cfg))
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Bootstrap] otp service")
	}

	signingKey, err := identitySigningKey(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Bootstrap] signing key")
	}
	provider, err := local.NewProvider(cfg.GetIssuer(), signingKey)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Bootstrap] identity provider")
	}

	clientCtx := roleswitch.NewIdentityContext()
	adminCtx := roleswitch.NewIdentityContext()
	switcher, err := roleswitch.NewSwitcher(store, clientCtx, adminCtx, navigation.NavigatorFunc(func(route string) {
		log.Info().Str("route", route).Msg("navigating")
	}))
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Bootstrap] switcher")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	poller := roleswitch.NewPoller(store, roleswitch.IndicatorInterval, func(roles []sessions.Role) {
		m.SetActiveSessions(len(roles))
	})

	services := authflow.Services{
		Verifier: verifier,
		OTP:      otpService,
		Admins:   adminRepo,
		Identity: provider,
		Sessions: store,
	}

	srv, err := New(cfg, services, flowrepo.NewInMemoryRepo(), switcher, clientCtx, adminCtx, m)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Bootstrap] server")
	}
	return srv, poller, nil
}

func sessionStorage(cfg config.Config) (sessions.Storage, error) {
	addr := cfg.GetRedisAddr()
	if addr == "" {
		log.Warn().Msg("REDIS_ADDR not set, sessions will not survive a restart")
		return sessions.NewInMemoryStorage(), nil
	}
	return redisstorage.New(redis.NewClient(&redis.Options{Addr: addr}))
}

func passcodeSender(cfg config.Config) delivery.Sender {
	if cfg.GetSmtpAccount() == "" {
		log.Warn().Msg("SMTP_ACCOUNT not set, passcodes will be logged instead of emailed")
		return delivery.NewLogSender(log.Logger)
	}
	return delivery.NewSMTPSender(cfg.GetSmtpHost(), cfg.GetSmtpPort(), cfg.GetSmtpAccount(), cfg.GetSmtpPassword())
}

// identitySigningKey returns the configured token signing key, or generates
// an ephemeral one. Ephemeral keys invalidate issued tokens on restart.
func identitySigningKey(cfg config.Config) ([]byte, error) {
	if key := cfg.GetIdentitySigningKey(); key != "" {
		return []byte(key), nil
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Wrap(err, "[identitySigningKey] rand.Read")
	}
	log.Warn().Msg("IDENTITY_SIGNING_KEY not set, using an ephemeral key")
	return []byte(base64.StdEncoding.EncodeToString(key)), nil
}

// seedAdmins loads the back-office identity records from the configured
// "email:role" pairs.
func seedAdmins(repo admins.Repo, accounts string) error {
	if strings.TrimSpace(accounts) == "" {
		log.Warn().Msg("ADMIN_ACCOUNTS not set, no back-office logins will be authorized")
		return nil
	}
	for _, pair := range strings.Split(accounts, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		email, role, found := strings.Cut(pair, ":")
		if !found {
			return errors.Errorf("[seedAdmins] malformed account %q, want email:role", pair)
		}
		roleType := admins.RoleType(strings.TrimSpace(role))
		switch roleType {
		case admins.RoleSuperAdmin, admins.RoleSales, admins.RoleSupport:
		default:
			return errors.Errorf("[seedAdmins] unknown role %q for %q", role, email)
		}
		if err := repo.Upsert(&admins.Admin{Email: strings.TrimSpace(email), Role: roleType}); err != nil {
			return errors.Wrapf(err, "[seedAdmins] upsert %q", email)
		}
	}
	return nil
}
