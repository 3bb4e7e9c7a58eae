package idp

import "errors"

var (
	IdentityNotFoundErr = errors.New("identity not found")
	SecretMismatchErr   = errors.New("secret mismatch")
	AlreadyExistsErr    = errors.New("identity already exists")
)
