package otp_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/portalhq/go-portal-auth/otp"
	"github.com/stretchr/testify/require"
)

const testEmail = "ops@example.com"

// recordingSender captures delivered codes and can be made to fail.
type recordingSender struct {
	mu    sync.Mutex
	codes []string
	err   error
}

func (s *recordingSender) SendOTP(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.codes = append(s.codes, code)
	return nil
}

func (s *recordingSender) lastCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.codes) == 0 {
		return ""
	}
	return s.codes[len(s.codes)-1]
}

type fixture struct {
	repo    *otp.InMemoryRepo
	sender  *recordingSender
	service *otp.Service
	now     *time.Time
}

func setup(t *testing.T, options ...otp.ServiceOption) *fixture {
	t.Helper()

	repo := otp.NewInMemoryRepo()
	sender := &recordingSender{}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	opts := append([]otp.ServiceOption{
		otp.WithNowTime(func() time.Time { return now }),
	}, options...)

	service, err := otp.NewService(repo, sender, opts...)
	require.NoError(t, err)

	return &fixture{repo: repo, sender: sender, service: service, now: &now}
}

func TestIssuePersistsSixDigitCode(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.service.Issue(testEmail))

	record, err := f.repo.GetByEmail(testEmail)
	require.NoError(t, err)
	require.Len(t, record.Value, otp.CodeLength)
	require.Regexp(t, `^[1-9][0-9]{5}$`, record.Value)
	require.Equal(t, f.now.Add(otp.TTL), record.ExpiresAt)
	require.Equal(t, record.Value, f.sender.lastCode())
}

func TestIssueSupersedesPreviousCode(t *testing.T) {
	scripted := []string{"111111", "222222"}
	next := 0
	f := setup(t, otp.WithCodeGenerator(func() (string, error) {
		code := scripted[next]
		next++
		return code, nil
	}))

	require.NoError(t, f.service.Issue(testEmail))
	require.NoError(t, f.service.Issue(testEmail))

	require.ErrorIs(t, f.service.Verify(testEmail, "111111"), otp.CodeMismatchErr)
	require.NoError(t, f.service.Verify(testEmail, "222222"))
}

func TestIssueSwallowsDeliveryFailure(t *testing.T) {
	f := setup(t)
	f.sender.err = errors.New("smtp unreachable")

	// the code is persisted, so issuance still succeeds
	require.NoError(t, f.service.Issue(testEmail))
	_, err := f.repo.GetByEmail(testEmail)
	require.NoError(t, err)
}

func TestVerify(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.service.Issue(testEmail))
	code := f.sender.lastCode()

	require.NoError(t, f.service.Verify(testEmail, code))
	require.ErrorIs(t, f.service.Verify(testEmail, "000000"), otp.CodeMismatchErr)
	require.ErrorIs(t, f.service.Verify("nobody@example.com", code), otp.CodeNotFoundErr)
}

func TestVerifyRejectsExpiredCode(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.service.Issue(testEmail))
	code := f.sender.lastCode()

	*f.now = f.now.Add(otp.TTL + time.Second)
	require.ErrorIs(t, f.service.Verify(testEmail, code), otp.CodeExpiredErr)

	// expiry alone does not delete the record
	_, err := f.repo.GetByEmail(testEmail)
	require.NoError(t, err)
}

func TestVerifyLeavesRecordInPlace(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.service.Issue(testEmail))
	code := f.sender.lastCode()

	require.NoError(t, f.service.Verify(testEmail, code))

	// verification alone never consumes; a retry with the same code works
	require.NoError(t, f.service.Verify(testEmail, code))
}

func TestConsume(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.service.Issue(testEmail))
	code := f.sender.lastCode()

	require.NoError(t, f.service.Consume(testEmail))
	require.ErrorIs(t, f.service.Verify(testEmail, code), otp.CodeNotFoundErr)

	// consuming with no live code is fine
	require.NoError(t, f.service.Consume(testEmail))
}

func TestGeneratedCodesStayInRange(t *testing.T) {
	f := setup(t)

	for i := 0; i < 50; i++ {
		require.NoError(t, f.service.Issue(testEmail))
		require.Regexp(t, `^[1-9][0-9]{5}$`, f.sender.lastCode())
	}
}
