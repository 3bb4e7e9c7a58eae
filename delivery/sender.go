package delivery

// Sender dispatches a one-time passcode to a user. Delivery is fire and
// forget from the caller's perspective: a code counts as issued once it is
// persisted, whether or not the message arrives.
type Sender interface {
	SendOTP(email, code string) error
}
