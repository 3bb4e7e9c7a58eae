package otp

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/portalhq/go-portal-auth/delivery"
)

// Service issues and redeems one-time passcodes.
type Service struct {
	repo     Repo
	sender   delivery.Sender
	logger   zerolog.Logger
	nowTime  func() time.Time // nowTime function (injectable for testing)
	generate func() (string, error)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithCodeGenerator replaces the code generator (primarily for testing)
func WithCodeGenerator(gen func() (string, error)) ServiceOption {
	return func(s *Service) {
		s.generate = gen
	}
}

// WithLogger sets the logger used for swallowed delivery failures.
func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService initializes a Service with required dependencies.
func NewService(repo Repo, sender delivery.Sender, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[NewService] otp repo is required")
	}
	if sender == nil {
		return nil, errors.New("[NewService] sender is required")
	}

	service := &Service{
		repo:     repo,
		sender:   sender,
		logger:   zerolog.Nop(),
		nowTime:  time.Now,
		generate: generateCode,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// Issue persists a fresh code for the email, superseding any prior one, and
// hands it to the delivery channel. The code counts as issued once persisted:
// delivery failures are logged, not returned.
func (s *Service) Issue(email string) error {
	code, err := s.generate()
	if err != nil {
		return errors.Wrap(err, "[Service.Issue] generate code")
	}

	// one live code per email: a new request invalidates the previous code
	if err := s.repo.DeleteByEmail(email); err != nil {
		return errors.Wrap(err, "[Service.Issue] delete previous code")
	}

	record := &Code{
		Email:     email,
		Value:     code,
		ExpiresAt: s.nowTime().Add(TTL),
	}
	if err := s.repo.Insert(record); err != nil {
		return errors.Wrap(err, "[Service.Issue] insert code")
	}

	if err := s.sender.SendOTP(email, code); err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("otp delivery failed")
	}
	return nil
}

// Verify checks a submitted code against the live record for the email.
// Expired codes are rejected but left in place; Consume removes the record
// once the whole login has succeeded.
func (s *Service) Verify(email, submitted string) error {
	record, err := s.repo.GetByEmail(email)
	if err != nil {
		return CodeNotFoundErr
	}
	if s.nowTime().After(record.ExpiresAt) {
		return CodeExpiredErr
	}
	if record.Value != submitted {
		return CodeMismatchErr
	}
	return nil
}

// Consume removes the live code for an email after a successful login.
func (s *Service) Consume(email string) error {
	if err := s.repo.DeleteByEmail(email); err != nil {
		return errors.Wrap(err, "[Service.Consume] delete code")
	}
	return nil
}

// generateCode draws a uniform 6 digit code from [100000, 999999], so there
// is never a leading zero to suppress.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
