// Package app wires the parley server runtime: config, logging, the
// credential store, the session service, and the HTTP surface.
//
// It is intentionally small and deterministic so startup failures are loud
// and behavior is predictable.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	authapi "parley/internal/auth/api"
	"parley/internal/auth/credential"
	"parley/internal/auth/session"
	"parley/internal/chat"
	"parley/internal/security/password"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is a small app-level lifecycle abstraction.
// It exists to allow DB-backed resources to be closed gracefully.
type Store interface {
	Close(ctx context.Context) error
}

// nopStore is used for in-memory store mode.
type nopStore struct{}

func (nopStore) Close(_ context.Context) error { return nil }

// App is the parley server runtime.
type App struct {
	cfg Config
	log Logger

	store Store

	dbPool    *pgxpool.Pool
	dbEnabled bool

	metrics *Metrics

	auth *authapi.Handler
	chat *chat.Handler
}

// New constructs a fully wired App instance from config and logger.
func New(cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}

	st, dbPool, dbEnabled, credStore, err := newStore(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	closeOnErr := func() {
		_ = st.Close(context.Background())
	}

	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		closeOnErr()
		return nil, err
	}

	hasher, err := password.FromEnv()
	if err != nil {
		closeOnErr()
		return nil, err
	}

	sessions, err := session.NewService(sessCfg, credStore, hasher)
	if err != nil {
		closeOnErr()
		return nil, err
	}

	metrics := NewMetrics()

	authHandler, err := authapi.NewHandler(log, sessions, authapi.WithMetrics(metrics))
	if err != nil {
		closeOnErr()
		return nil, err
	}

	completer, err := chat.CompleterFromEnv()
	if err != nil {
		closeOnErr()
		return nil, err
	}

	// A typed-nil *HTTPCompleter must become a nil interface, so the chat
	// handler's nil check keeps meaning "backend disabled".
	var chatCompleter chat.Completer
	if completer != nil {
		chatCompleter = completer
	} else {
		log.Info("chat.backend.disabled")
	}
	chatHandler := chat.NewHandler(log, chat.DefaultCatalog(), chatCompleter)

	return &App{
		cfg:       cfg,
		log:       log,
		store:     st,
		dbPool:    dbPool,
		dbEnabled: dbEnabled,
		metrics:   metrics,
		auth:      authHandler,
		chat:      chatHandler,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal
// server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.metrics, a.auth, a.chat)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           WithRequestLogging(mux, a.log),
		ReadHeaderTimeout: nonZeroDuration(a.cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       nonZeroDuration(a.cfg.ReadTimeout, 15*time.Second),
		WriteTimeout:      nonZeroDuration(a.cfg.WriteTimeout, 60*time.Second),
		IdleTimeout:       nonZeroDuration(a.cfg.IdleTimeout, 60*time.Second),
		MaxHeaderBytes:    nonZeroInt(a.cfg.MaxHeaderBytes, 1<<20),
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr, "db_enabled", a.dbEnabled)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
		return err
	}

	if err := a.store.Close(shutdownCtx); err != nil {
		a.log.Error("store.close.fail", "err", err)
	}

	a.log.Info("server.stopped")
	return nil
}

func nonZeroDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

func nonZeroInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// newStore decides between Postgres-backed persistence and the in-memory dev
// store, and prepares the credential schema when the DB is in play.
func newStore(ctx context.Context, cfg Config, log Logger) (Store, *pgxpool.Pool, bool, credential.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Info("db.disabled.inmemory_store")
		return nopStore{}, nil, false, credential.NewMemoryStore(), nil
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, nil, false, nil, err
	}

	creds, err := credential.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, nil, false, nil, err
	}
	if err := creds.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, false, nil, err
	}

	log.Info("db.enabled.postgres_store")

	// Ownership model: app owns the pool lifecycle; the credential store
	// borrows it.
	return dbStore{pool: pool}, pool, true, creds, nil
}

type dbStore struct {
	pool *pgxpool.Pool
}

func (s dbStore) Close(_ context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
