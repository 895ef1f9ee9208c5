package credential

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

// Integration tests are enabled when PARLEY_DATABASE_URL is set; without it
// they skip so local runs stay fast.

func mustPGXPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("PARLEY_DATABASE_URL")
	if dbURL == "" {
		t.Skip("PARLEY_DATABASE_URL is not set; skipping Postgres integration test")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func newTestUsername(t *testing.T) string {
	t.Helper()
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		t.Fatalf("ulid: %v", err)
	}
	return "it-" + id.String()
}

func cleanupUser(ctx context.Context, t *testing.T, pool *pgxpool.Pool, username string) {
	t.Helper()
	if _, err := pool.Exec(ctx, `DELETE FROM users WHERE username = $1`, username); err != nil {
		t.Logf("cleanup %q: %v", username, err)
	}
}

func TestPostgresStore_CreateAndLookup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := mustPGXPool(ctx, t)

	store, err := NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	username := newTestUsername(t)
	t.Cleanup(func() { cleanupUser(ctx, t, pool, username) })

	if err := store.Create(ctx, username, "opaque-digest"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec, err := store.Lookup(ctx, username)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec.Username != username || rec.PasswordHash != "opaque-digest" {
		t.Fatalf("record mismatch: %+v", rec)
	}
	if rec.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be set")
	}
}

func TestPostgresStore_Create_Duplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := mustPGXPool(ctx, t)

	store, err := NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	username := newTestUsername(t)
	t.Cleanup(func() { cleanupUser(ctx, t, pool, username) })

	if err := store.Create(ctx, username, "digest-1"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, username, "digest-2"); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestPostgresStore_Lookup_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := mustPGXPool(ctx, t)

	store, err := NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	if _, err := store.Lookup(ctx, newTestUsername(t)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresStore_Create_RaceOneWinner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := mustPGXPool(ctx, t)

	store, err := NewPostgresStore(pool)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}

	username := newTestUsername(t)
	t.Cleanup(func() { cleanupUser(ctx, t, pool, username) })

	const n = 8
	var wg sync.WaitGroup
	results := make([]error, n)

	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = store.Create(ctx, username, fmt.Sprintf("digest-%d", i))
		}()
	}
	wg.Wait()

	var winners int
	for _, err := range results {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrAlreadyExists):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one successful Create, got %d", winners)
	}
}
