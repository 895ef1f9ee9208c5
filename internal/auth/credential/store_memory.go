package credential

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for DB-less dev mode and tests.
// Credentials do not survive a restart.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]Record

	now func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recs: make(map[string]Record),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// EnsureSchema is a no-op; the map is created eagerly.
func (s *MemoryStore) EnsureSchema(_ context.Context) error { return nil }

// Create stores a credential, mirroring the uniqueness semantics of the
// Postgres primary key.
func (s *MemoryStore) Create(ctx context.Context, username, passwordHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recs[username]; ok {
		return ErrAlreadyExists
	}
	s.recs[username] = Record{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}
	return nil
}

// Lookup returns the stored credential for username, or ErrNotFound.
func (s *MemoryStore) Lookup(ctx context.Context, username string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recs[username]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}
