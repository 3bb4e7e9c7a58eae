package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/portalhq/go-portal-auth/admins"
	"github.com/portalhq/go-portal-auth/authflow"
	"github.com/portalhq/go-portal-auth/idp/local"
	"github.com/portalhq/go-portal-auth/internal/config"
	"github.com/portalhq/go-portal-auth/internal/metrics"
	"github.com/portalhq/go-portal-auth/navigation"
	"github.com/portalhq/go-portal-auth/otp"
	"github.com/portalhq/go-portal-auth/roleswitch"
	"github.com/portalhq/go-portal-auth/server/flowrepo"
	"github.com/portalhq/go-portal-auth/sessions"
)

type testConfig struct{}

func (testConfig) GetPort() string         { return ":0" }
func (testConfig) GetAppName() string      { return "Portal Auth" }
func (testConfig) GetEnv() string          { return "test" }
func (testConfig) GetSmtpHost() string     { return "" }
func (testConfig) GetSmtpPort() string     { return "" }
func (testConfig) GetSmtpPassword() string { return "" }
func (testConfig) GetSmtpAccount() string  { return "" }
func (testConfig) GetRedisAddr() string    { return "" }
func (testConfig) GetAdminAccounts() string {
	return ""
}

func (testConfig) GetAllowedOrigins() config.AllowedOrigins {
	return config.AllowedOrigins{"https://portal.example.com": {}}
}
func (testConfig) GetAllowedMethods() string { return "GET, POST" }
func (testConfig) GetAllowedHeaders() string { return "Content-Type" }

func (testConfig) GetSessionNamespace() string   { return "portal_session" }
func (testConfig) GetIssuer() string             { return "com.portal.test" }
func (testConfig) GetIdentitySigningKey() string { return "test-signing-key" }
func (testConfig) GetCredentialSecret() string   { return "test-credential-secret" }

type capturingSender struct {
	mu    sync.Mutex
	codes []string
}

func (c *capturingSender) SendOTP(email, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes = append(c.codes, code)
	return nil
}

func (c *capturingSender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.codes)
}

func (c *capturingSender) lastCode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.codes) == 0 {
		return ""
	}
	return c.codes[len(c.codes)-1]
}

type testServer struct {
	srv      *httptest.Server
	sender   *capturingSender
	store    *sessions.Store
	adminCtx *roleswitch.IdentityContext
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	adminRepo := admins.NewInMemoryRepo()
	require.NoError(t, adminRepo.Upsert(&admins.Admin{Email: "ops@example.com", Role: admins.RoleSales}))
	require.NoError(t, adminRepo.Upsert(&admins.Admin{Email: "root@example.com", Role: admins.RoleSuperAdmin}))

	verifier, err := admins.NewVerifier(adminRepo)
	require.NoError(t, err)

	sender := &capturingSender{}
	otpService, err := otp.NewService(otp.NewInMemoryRepo(), sender)
	require.NoError(t, err)

	provider, err := local.NewProvider("com.portal.test", []byte("test-signing-key"))
	require.NoError(t, err)

	store, err := sessions.NewStore(sessions.NewInMemoryStorage())
	require.NoError(t, err)

	clientCtx := roleswitch.NewIdentityContext()
	adminCtx := roleswitch.NewIdentityContext()
	switcher, err := roleswitch.NewSwitcher(store, clientCtx, adminCtx, navigation.NavigatorFunc(func(string) {}))
	require.NoError(t, err)

	services := authflow.Services{
		Verifier: verifier,
		OTP:      otpService,
		Admins:   adminRepo,
		Identity: provider,
		Sessions: store,
	}

	s, err := New(testConfig{}, services, flowrepo.NewInMemoryRepo(), switcher, clientCtx, adminCtx, metrics.New(prometheus.NewRegistry()))
	require.NoError(t, err)

	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, sender: sender, store: store, adminCtx: adminCtx}
}

func (ts *testServer) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.srv.URL+path, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func (ts *testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.srv.URL + path)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// login drives the full email+code flow for the given address and returns
// the verify response body.
func (ts *testServer) login(t *testing.T, email string) verifyResponse {
	t.Helper()

	resp := ts.post(t, RouteAuthEmail, submitEmailRequest{Email: email})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var started submitEmailResponse
	decodeInto(t, resp, &started)
	require.NotEmpty(t, started.FlowID)
	require.Equal(t, "otp", started.Step)

	resp = ts.post(t, RouteAuthVerify, verifyRequest{FlowID: started.FlowID, Code: ts.sender.lastCode()})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var verified verifyResponse
	decodeInto(t, resp, &verified)
	return verified
}

func TestLoginOverHTTP(t *testing.T) {
	ts := newTestServer(t)

	verified := ts.login(t, "ops@example.com")
	require.Equal(t, sessions.RoleSales, verified.Role)
	require.Equal(t, navigation.RouteSalesDashboard, verified.Route)
	require.NotEmpty(t, verified.AccessToken)
	require.NotEmpty(t, verified.RefreshToken)

	require.True(t, ts.store.HasValidSession(sessions.RoleSales))

	role, ok := ts.adminCtx.Role()
	require.True(t, ok)
	require.Equal(t, sessions.RoleSales, role)
}

func TestSuperAdminLandsOnAdminDashboard(t *testing.T) {
	ts := newTestServer(t)

	verified := ts.login(t, "root@example.com")
	require.Equal(t, sessions.RoleAdmin, verified.Role)
	require.Equal(t, navigation.RouteAdminDashboard, verified.Route)
}

func TestSubmitEmailRejectsUnknownAddress(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.post(t, RouteAuthEmail, submitEmailRequest{Email: "stranger@example.com"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, ts.sender.lastCode())
}

func TestSubmitEmailRejectsMalformedAddress(t *testing.T) {
	ts := newTestServer(t)

	for _, email := range []string{"", "ops", "ops@", "@example.com", "ops example@x.com"} {
		resp := ts.post(t, RouteAuthEmail, submitEmailRequest{Email: email})
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "email %q", email)
	}
}

func TestVerifyWrongCodeIsRetryable(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.post(t, RouteAuthEmail, submitEmailRequest{Email: "ops@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var started submitEmailResponse
	decodeInto(t, resp, &started)

	wrong := "000000"
	if ts.sender.lastCode() == wrong {
		wrong = "000001"
	}
	resp = ts.post(t, RouteAuthVerify, verifyRequest{FlowID: started.FlowID, Code: wrong})
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ts.post(t, RouteAuthVerify, verifyRequest{FlowID: started.FlowID, Code: ts.sender.lastCode()})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestVerifyRejectsMalformedCode(t *testing.T) {
	ts := newTestServer(t)

	for _, code := range []string{"", "123", "1234567", "12a456"} {
		resp := ts.post(t, RouteAuthVerify, verifyRequest{FlowID: "ignored", Code: code})
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "code %q", code)
	}
}

func TestVerifyUnknownFlow(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.post(t, RouteAuthVerify, verifyRequest{FlowID: "missing", Code: "123456"})
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResendSupersedesCode(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.post(t, RouteAuthEmail, submitEmailRequest{Email: "ops@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var started submitEmailResponse
	decodeInto(t, resp, &started)
	first := ts.sender.lastCode()

	resp = ts.post(t, RouteAuthResend, flowRequest{FlowID: started.FlowID})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := ts.sender.lastCode()
	require.Equal(t, 2, ts.sender.count())

	if first != second {
		resp = ts.post(t, RouteAuthVerify, verifyRequest{FlowID: started.FlowID, Code: first})
		resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp = ts.post(t, RouteAuthVerify, verifyRequest{FlowID: started.FlowID, Code: second})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAccountsHiddenWithSingleSession(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "ops@example.com")

	resp := ts.get(t, RouteAccounts)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body accountsResponse
	decodeInto(t, resp, &body)
	require.Empty(t, body.Accounts)
}

func TestSwitchRoutes(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "ops@example.com")

	// switching to the current role is a no-op
	resp := ts.post(t, RouteSwitch, roleRequest{Role: sessions.RoleSales})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ts.post(t, RouteSwitch, roleRequest{Role: sessions.RoleClient})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body switchResponse
	decodeInto(t, resp, &body)
	require.Equal(t, navigation.RouteClientDashboard, body.Route)

	resp = ts.post(t, RouteSwitch, roleRequest{Role: sessions.Role("manager")})
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogoutClearsSessionAndContext(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t, "ops@example.com")

	resp := ts.post(t, RouteLogout, roleRequest{Role: sessions.RoleSales})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.False(t, ts.store.HasValidSession(sessions.RoleSales))
	_, ok := ts.adminCtx.Role()
	require.False(t, ok)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.get(t, RouteHealthz)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeInto(t, resp, &body)
	require.Equal(t, "ok", body["status"])
}

func TestCorsHeadersForAllowedOrigin(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.srv.URL+RouteHealthz, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://portal.example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "https://portal.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}
