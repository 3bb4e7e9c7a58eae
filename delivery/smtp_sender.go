package delivery

import (
	"fmt"
	"net/smtp"

	"github.com/pkg/errors"
)

var _ Sender = (*SMTPSender)(nil)

// SMTPSender delivers passcodes over authenticated SMTP.
type SMTPSender struct {
	host     string
	port     string
	account  string
	password string
}

// NewSMTPSender creates a sender that submits mail via host:port using the
// account both for authentication and as the envelope sender.
func NewSMTPSender(host, port, account, password string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		account:  account,
		password: password,
	}
}

func (s *SMTPSender) SendOTP(email, code string) error {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	auth := smtp.PlainAuth("", s.account, s.password, s.host)

	msg := fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: Your verification code\r\n\r\nYour verification code is %s. It expires in 10 minutes.\r\n",
		email, s.account, code,
	)

	if err := smtp.SendMail(addr, auth, s.account, []string{email}, []byte(msg)); err != nil {
		return errors.Wrap(err, "[SMTPSender.SendOTP] smtp.SendMail")
	}
	return nil
}
