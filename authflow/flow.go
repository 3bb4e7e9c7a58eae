package authflow

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/pkg/errors"

	"github.com/portalhq/go-portal-auth/admins"
	"github.com/portalhq/go-portal-auth/idp"
	"github.com/portalhq/go-portal-auth/navigation"
	"github.com/portalhq/go-portal-auth/otp"
	"github.com/portalhq/go-portal-auth/sessions"
)

// Step identifies where a login flow currently is.
type Step string

const (
	StepEmail Step = "email" // waiting for the email address
	StepOTP   Step = "otp"   // waiting for the passcode
	StepDone  Step = "done"  // terminal success
)

// Services bundles the collaborator dependencies of a login flow.
type Services struct {
	Verifier *admins.Verifier // authorizes the submitted email
	OTP      *otp.Service     // issues and redeems passcodes
	Admins   admins.Repo      // back-office identity records
	Identity idp.Provider     // identity-provider session establishment
	Sessions *sessions.Store  // per-role session records
}

// Result is the terminal outcome of a successful login.
type Result struct {
	Role        sessions.Role
	Route       string
	Identity    *sessions.Identity
	Credentials *idp.Credentials
}

// Flow is the two-step admin login state machine: Email, then OTP, then a
// terminal success that records the session and resolves the landing route.
// Failures on the OTP step are retryable and leave the flow where it is.
// Callers validate email syntax and the 6-character code shape before
// invoking the flow.
type Flow struct {
	services         Services
	credentialSecret []byte
	nowTime          func() time.Time // nowTime function (injectable for testing)

	step         Step
	pendingEmail string
	pendingRole  admins.RoleType
}

// FlowOption defines a function type to modify the Flow instance.
type FlowOption func(*Flow)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) FlowOption {
	return func(f *Flow) {
		f.nowTime = nowFunc
	}
}

// NewFlow initializes a login flow at the email step.
func NewFlow(services Services, credentialSecret []byte, options ...FlowOption) (*Flow, error) {
	if services.Verifier == nil {
		return nil, errors.New("[NewFlow] verifier is required")
	}
	if services.OTP == nil {
		return nil, errors.New("[NewFlow] otp service is required")
	}
	if services.Admins == nil {
		return nil, errors.New("[NewFlow] admins repo is required")
	}
	if services.Identity == nil {
		return nil, errors.New("[NewFlow] identity provider is required")
	}
	if services.Sessions == nil {
		return nil, errors.New("[NewFlow] session store is required")
	}
	if len(credentialSecret) == 0 {
		return nil, errors.New("[NewFlow] credential secret is required")
	}

	flow := &Flow{
		services:         services,
		credentialSecret: credentialSecret,
		nowTime:          time.Now,
		step:             StepEmail,
	}

	for _, opt := range options {
		opt(flow)
	}

	return flow, nil
}

// CurrentStep returns the step the flow is waiting on.
func (f *Flow) CurrentStep() Step {
	return f.step
}

// PendingEmail returns the email recorded by the email step.
func (f *Flow) PendingEmail() string {
	return f.pendingEmail
}

// SubmitEmail handles the email step: authorize the address, then issue a
// passcode and advance to the OTP step. An unauthorized email or a failed
// issuance leaves the flow on the email step.
func (f *Flow) SubmitEmail(email string) error {
	if f.step != StepEmail {
		return WrongStepErr
	}

	verification := f.services.Verifier.VerifyAdminEmail(email)
	if !verification.Valid {
		return NotAuthorizedErr
	}

	f.pendingEmail = email
	f.pendingRole = verification.Role

	if err := f.services.OTP.Issue(email); err != nil {
		return DeliveryFailedErr
	}

	f.step = StepOTP
	return nil
}

// Resend issues a fresh passcode for the pending email without changing
// step. The previous code is superseded; only the most recent one redeems.
func (f *Flow) Resend() error {
	if f.step != StepOTP {
		return WrongStepErr
	}
	if err := f.services.OTP.Issue(f.pendingEmail); err != nil {
		return DeliveryFailedErr
	}
	return nil
}

// Back returns to the email step. The issued code stays live.
func (f *Flow) Back() {
	if f.step == StepOTP {
		f.step = StepEmail
	}
}

// SubmitCode handles the OTP step. On a valid code it confirms the admin
// record, establishes the identity-provider session, touches the record's
// last login, consumes the passcode, stores the session for the resolved
// role, and returns the landing route. Any failure past code verification
// surfaces as a generic authentication failure with the flow still on the
// OTP step.
func (f *Flow) SubmitCode(code string) (*Result, error) {
	if f.step != StepOTP {
		return nil, WrongStepErr
	}

	if err := f.services.OTP.Verify(f.pendingEmail, code); err != nil {
		return nil, InvalidCodeErr
	}

	admin, err := f.services.Admins.GetByEmail(f.pendingEmail)
	if err != nil {
		return nil, AuthenticationFailedErr
	}

	creds, err := f.establishSession(admin.Email)
	if err != nil {
		return nil, AuthenticationFailedErr
	}

	if err := f.services.Admins.TouchLastLogin(admin.Email, f.nowTime()); err != nil {
		return nil, AuthenticationFailedErr
	}

	// consume only once the identity-provider session exists, so a failure
	// above leaves the code redeemable
	if err := f.services.OTP.Consume(admin.Email); err != nil {
		return nil, AuthenticationFailedErr
	}

	role := sessionRoleFor(admin.Role)
	identity := &sessions.Identity{ID: creds.UserID, Email: admin.Email}
	f.services.Sessions.StoreSession(role, identity, creds.AccessToken, creds.RefreshToken, creds.ExpiresIn)

	f.step = StepDone
	return &Result{
		Role:        role,
		Route:       navigation.ForRole(role),
		Identity:    identity,
		Credentials: creds,
	}, nil
}

// establishSession signs in against the identity provider, provisioning the
// account on first login and retrying exactly once.
func (f *Flow) establishSession(email string) (*idp.Credentials, error) {
	secret := f.derivedSecret(email)

	creds, err := f.services.Identity.SignIn(email, secret)
	if errors.Is(err, idp.IdentityNotFoundErr) {
		if err := f.services.Identity.SignUp(email, secret); err != nil {
			return nil, errors.Wrap(err, "[Flow.establishSession] provision identity")
		}
		creds, err = f.services.Identity.SignIn(email, secret)
	}
	if err != nil {
		return nil, errors.Wrap(err, "[Flow.establishSession] sign in")
	}
	return creds, nil
}

// derivedSecret deterministically derives the identity-provider secret for
// an admin email from the flow's credential secret.
func (f *Flow) derivedSecret(email string) string {
	mac := hmac.New(sha256.New, f.credentialSecret)
	mac.Write([]byte(email))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}

// sessionRoleFor maps a back-office role onto the session scope it occupies.
func sessionRoleFor(role admins.RoleType) sessions.Role {
	switch role {
	case admins.RoleSales:
		return sessions.RoleSales
	case admins.RoleSupport:
		return sessions.RoleSupport
	default:
		return sessions.RoleAdmin
	}
}
