package otp

import "errors"

var (
	CodeNotFoundErr = errors.New("no code issued for email")
	CodeExpiredErr  = errors.New("code expired")
	CodeMismatchErr = errors.New("code mismatch")
)
