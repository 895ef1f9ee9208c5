package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store over PostgreSQL.
//
// The pgx pool is owned by the caller; this store must NOT close it.
// Schema creation is lazy: every operation goes through EnsureSchema first,
// which is a once-per-process CREATE TABLE IF NOT EXISTS.
type PostgresStore struct {
	pool *pgxpool.Pool

	schemaOnce sync.Once
	schemaErr  error
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("credential: nil pool")
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the users table if it does not exist. Idempotent:
// concurrent callers from multiple requests (or processes) are safe because
// the statement itself is IF NOT EXISTS and the result is cached per process.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.pool.Exec(ctx, `
			CREATE TABLE IF NOT EXISTS users (
				username        TEXT PRIMARY KEY,
				hashed_password TEXT NOT NULL,
				created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
			)`)
	})
	return s.schemaErr
}

// Create inserts a credential row. A unique violation on the primary key is
// normalized to ErrAlreadyExists; two racing registrations for the same
// username are resolved by the constraint, never by application locking.
func (s *PostgresStore) Create(ctx context.Context, username, passwordHash string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("credential: empty username")
	}
	if passwordHash == "" {
		return fmt.Errorf("credential: empty password hash")
	}
	if err := s.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("credential: ensure schema: %w", err)
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (username, hashed_password) VALUES ($1, $2)`,
		username, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("credential: create: %w", err)
	}
	return nil
}

// Lookup fetches a credential row by exact username.
func (s *PostgresStore) Lookup(ctx context.Context, username string) (Record, error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return Record{}, fmt.Errorf("credential: ensure schema: %w", err)
	}

	var rec Record
	err := s.pool.QueryRow(ctx,
		`SELECT username, hashed_password, created_at FROM users WHERE username = $1`,
		username,
	).Scan(&rec.Username, &rec.PasswordHash, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("credential: lookup: %w", err)
	}
	return rec, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" // unique_violation
}
