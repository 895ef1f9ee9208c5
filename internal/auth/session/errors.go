package session

import "errors"

var (
	// ErrInvalidToken is returned when a token fails signature or structural
	// checks, or (from Verify) when it is expired. Callers must not surface
	// which case occurred.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnauthenticated is returned for unknown-username and wrong-password
	// alike; the two cases are deliberately indistinguishable.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrConfig is returned for invalid configuration. A missing secret key
	// is fatal at startup, never a per-request error.
	ErrConfig = errors.New("invalid session config")
)
