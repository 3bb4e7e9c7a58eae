package sessions

import "errors"

// NotFoundErr is returned by Storage implementations when no value exists
// for a key.
var NotFoundErr = errors.New("storage: key not found")

// Storage is the durable key/value store backing the session cache across
// process restarts. Keys are opaque strings; values are serialized session
// records.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}
