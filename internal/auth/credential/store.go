// Package credential is the persistent username -> password-hash mapping
// behind login and registration.
//
// Records are immutable after creation. Lookups are case-sensitive: two
// usernames differing only in case are distinct records.
package credential

import (
	"context"
	"errors"
	"time"
)

// Record is a stored credential. PasswordHash is an opaque salted digest;
// the plaintext password is never stored or logged.
type Record struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Public, stable errors for callers. Raw storage errors never cross this
// package boundary.
var (
	ErrAlreadyExists = errors.New("username already exists")
	ErrNotFound      = errors.New("credential not found")
)

// Store is the credential persistence boundary.
type Store interface {
	// EnsureSchema creates the backing schema if it does not exist.
	// It is idempotent and safe to call repeatedly or concurrently.
	EnsureSchema(ctx context.Context) error

	// Create stores a new credential. Returns ErrAlreadyExists when the
	// username is taken; under a duplicate-registration race exactly one
	// call succeeds (enforced by the storage uniqueness constraint).
	Create(ctx context.Context, username, passwordHash string) error

	// Lookup returns the credential for username, or ErrNotFound.
	Lookup(ctx context.Context, username string) (Record, error)
}
