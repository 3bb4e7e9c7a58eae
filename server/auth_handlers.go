package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/portalhq/go-portal-auth/authflow"
	"github.com/portalhq/go-portal-auth/otp"
	"github.com/portalhq/go-portal-auth/roleswitch"
	"github.com/portalhq/go-portal-auth/server/flowrepo"
	"github.com/portalhq/go-portal-auth/sessions"
)

type submitEmailRequest struct {
	Email string `json:"email"`
}

type submitEmailResponse struct {
	FlowID string `json:"flow_id"`
	Step   string `json:"step"`
}

// SubmitEmailHandler begins an admin login flow (POST /auth/admin/email)
func (s *Server) SubmitEmailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitEmailRequest
		if !readJSON(w, r, &req) {
			return
		}

		email := strings.TrimSpace(req.Email)
		if !validEmail(email) {
			writeError(w, http.StatusBadRequest, "invalid email address")
			return
		}

		// abandoned flows are evicted lazily on each new login attempt
		s.flows.DeleteOlderThan(s.nowTime().Add(-flowTimeout))

		s.metrics.IncrementLoginAttempts()

		flow, err := authflow.NewFlow(s.services, s.secret)
		if err != nil {
			log.Err(err).Msg("failed to create login flow")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		if err := flow.SubmitEmail(email); err != nil {
			switch {
			case errors.Is(err, authflow.NotAuthorizedErr):
				writeError(w, http.StatusUnauthorized, err.Error())
			case errors.Is(err, authflow.DeliveryFailedErr):
				writeError(w, http.StatusServiceUnavailable, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		s.metrics.IncrementCodesIssued()

		flowID := uuid.New().String()
		if err := s.flows.Upsert(flowID, &flowrepo.Entry{Flow: flow, CreatedAt: s.nowTime()}); err != nil {
			log.Err(err).Msg("failed to store login flow")
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, submitEmailResponse{FlowID: flowID, Step: string(flow.CurrentStep())})
	}
}

type flowRequest struct {
	FlowID string `json:"flow_id"`
}

// ResendHandler issues a fresh passcode for an in-flight flow (POST /auth/admin/resend)
func (s *Server) ResendHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req flowRequest
		if !readJSON(w, r, &req) {
			return
		}

		entry, err := s.flows.Get(req.FlowID)
		if err != nil {
			writeError(w, http.StatusNotFound, "login flow not found")
			return
		}

		if err := entry.Flow.Resend(); err != nil {
			switch {
			case errors.Is(err, authflow.WrongStepErr):
				writeError(w, http.StatusConflict, err.Error())
			case errors.Is(err, authflow.DeliveryFailedErr):
				writeError(w, http.StatusServiceUnavailable, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		s.metrics.IncrementCodesIssued()
		writeJSON(w, http.StatusOK, submitEmailResponse{FlowID: req.FlowID, Step: string(entry.Flow.CurrentStep())})
	}
}

type verifyRequest struct {
	FlowID string `json:"flow_id"`
	Code   string `json:"code"`
}

type verifyResponse struct {
	Role         sessions.Role `json:"role"`
	Route        string        `json:"route"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in,omitempty"` // seconds
}

// VerifyHandler redeems a submitted passcode (POST /auth/admin/verify)
func (s *Server) VerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		if !readJSON(w, r, &req) {
			return
		}

		if !validCode(req.Code) {
			writeError(w, http.StatusBadRequest, "code must be 6 digits")
			return
		}

		entry, err := s.flows.Get(req.FlowID)
		if err != nil {
			writeError(w, http.StatusNotFound, "login flow not found")
			return
		}

		result, err := entry.Flow.SubmitCode(req.Code)
		if err != nil {
			switch {
			case errors.Is(err, authflow.InvalidCodeErr):
				s.metrics.IncrementCodesRejected()
				writeError(w, http.StatusUnauthorized, err.Error())
			case errors.Is(err, authflow.WrongStepErr):
				writeError(w, http.StatusConflict, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, authflow.AuthenticationFailedErr.Error())
			}
			return
		}

		_ = s.flows.Delete(req.FlowID)
		s.adminCtx.Set(result.Role, result.Identity)
		s.metrics.IncrementLoginSuccesses()
		s.metrics.SetActiveSessions(len(s.services.Sessions.ActiveRoles()))

		writeJSON(w, http.StatusOK, verifyResponse{
			Role:         result.Role,
			Route:        result.Route,
			AccessToken:  result.Credentials.AccessToken,
			RefreshToken: result.Credentials.RefreshToken,
			ExpiresIn:    int64(result.Credentials.ExpiresIn.Seconds()),
		})
	}
}

type accountsResponse struct {
	Accounts []roleswitch.Account `json:"accounts"`
}

// AccountsHandler lists the currently active roles (GET /auth/accounts)
func (s *Server) AccountsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts := s.switcher.Accounts()
		if accounts == nil {
			accounts = []roleswitch.Account{}
		}
		writeJSON(w, http.StatusOK, accountsResponse{Accounts: accounts})
	}
}

type roleRequest struct {
	Role sessions.Role `json:"role"`
}

type switchResponse struct {
	Route string `json:"route"`
}

// SwitchHandler resolves the landing route for a role switch (POST /auth/switch)
func (s *Server) SwitchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roleRequest
		if !readJSON(w, r, &req) {
			return
		}
		if !req.Role.Valid() {
			writeError(w, http.StatusBadRequest, "unknown role")
			return
		}

		route, ok := s.switcher.RouteFor(req.Role)
		if !ok {
			// already on this role, nothing to navigate
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, switchResponse{Route: route})
	}
}

// LogoutHandler clears the session for a role (POST /auth/logout)
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roleRequest
		if !readJSON(w, r, &req) {
			return
		}
		if !req.Role.Valid() {
			writeError(w, http.StatusBadRequest, "unknown role")
			return
		}

		s.services.Sessions.ClearSession(req.Role)
		if role, ok := s.adminCtx.Role(); ok && role == req.Role {
			s.adminCtx.Clear()
		}
		if role, ok := s.clientCtx.Role(); ok && role == req.Role {
			s.clientCtx.Clear()
		}
		s.metrics.SetActiveSessions(len(s.services.Sessions.ActiveRoles()))

		w.WriteHeader(http.StatusNoContent)
	}
}

// HealthzHandler reports liveness (GET /healthz)
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// validEmail performs the syntactic check the UI applies before the core is
// invoked.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && strings.Contains(email[at:], ".") && !strings.ContainsAny(email, " \t\r\n")
}

// validCode enforces the fixed 6-digit code shape.
func validCode(code string) bool {
	if len(code) != otp.CodeLength {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
