package authflow

import "errors"

var (
	NotAuthorizedErr        = errors.New("email not authorized for back-office access")
	DeliveryFailedErr       = errors.New("could not send verification code")
	InvalidCodeErr          = errors.New("invalid or expired verification code")
	AuthenticationFailedErr = errors.New("authentication failed")
	WrongStepErr            = errors.New("operation not valid for the current step")
)
