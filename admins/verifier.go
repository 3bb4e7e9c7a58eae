package admins

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Verification is the outcome of an admin email check. Role is only set when
// Valid is true.
type Verification struct {
	Valid bool
	Role  RoleType
}

// Verifier answers whether an email address is authorized for a privileged
// role.
type Verifier struct {
	repo   Repo
	logger zerolog.Logger
}

// VerifierOption defines a function type to modify the Verifier instance.
type VerifierOption func(*Verifier)

// WithVerifierLogger sets the logger used for swallowed lookup failures.
func WithVerifierLogger(logger zerolog.Logger) VerifierOption {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// NewVerifier initializes a Verifier over the given identity store.
func NewVerifier(repo Repo, options ...VerifierOption) (*Verifier, error) {
	if repo == nil {
		return nil, errors.New("[NewVerifier] admins repo is required")
	}

	verifier := &Verifier{
		repo:   repo,
		logger: zerolog.Nop(),
	}

	for _, opt := range options {
		opt(verifier)
	}

	return verifier, nil
}

// VerifyAdminEmail looks up the record for the exact email. Not-found and
// transient lookup failures both come back as not valid, so callers cannot
// tell registered emails apart from lookup outages.
func (v *Verifier) VerifyAdminEmail(email string) Verification {
	admin, err := v.repo.GetByEmail(email)
	if err != nil {
		v.logger.Debug().Err(err).Msg("admin email lookup failed")
		return Verification{}
	}
	return Verification{Valid: true, Role: admin.Role}
}
