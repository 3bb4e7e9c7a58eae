package delivery

import "github.com/rs/zerolog"

var _ Sender = (*LogSender)(nil)

// LogSender writes codes to the log instead of sending mail. For development
// environments without SMTP credentials.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a sender that logs each code at info level.
func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendOTP(email, code string) error {
	s.logger.Info().Str("email", email).Str("code", code).Msg("otp issued (log delivery)")
	return nil
}
