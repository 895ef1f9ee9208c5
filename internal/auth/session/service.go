package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parley/internal/auth/credential"
	"parley/internal/security/password"
)

// RefreshOutcome tags the three distinguishable results of RefreshIfNeeded.
// "No new token" alone would conflate "still fresh" with "not decodable";
// callers need to act precisely on each.
type RefreshOutcome int

const (
	// RefreshOutcomeInvalid: the token is not decodable; nothing was issued.
	RefreshOutcomeInvalid RefreshOutcome = iota
	// RefreshOutcomeNotNeeded: the token is decodable and not near expiry.
	RefreshOutcomeNotNeeded
	// RefreshOutcomeRefreshed: a new token for the same subject was issued.
	RefreshOutcomeRefreshed
)

// String returns the stable label used in logs and metrics.
func (o RefreshOutcome) String() string {
	switch o {
	case RefreshOutcomeRefreshed:
		return "refreshed"
	case RefreshOutcomeNotNeeded:
		return "not_needed"
	default:
		return "invalid"
	}
}

// Service orchestrates registration, login, token inspection, and
// expiry-triggered refresh over the credential store and the Codec.
type Service struct {
	cfg    Config
	codec  *Codec
	store  credential.Store
	hasher password.Config

	// dummyHash equalizes login timing when the username is unknown, so the
	// response time does not reveal whether a username exists.
	dummyHash string
}

// NewService constructs a Service. The credential store and password hasher
// are injected; the token codec is derived from cfg.SecretKey.
func NewService(cfg Config, store credential.Store, hasher password.Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("session: nil credential store")
	}

	codec, err := NewCodec([]byte(cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:    cfg,
		codec:  codec,
		store:  store,
		hasher: hasher,
	}

	if hash, err := hasher.Hash("timing-equalizer-not-a-real-password"); err == nil {
		s.dummyHash = hash
	}

	return s, nil
}

// Config returns the injected configuration (read-only by convention).
func (s *Service) Config() Config { return s.cfg }

// Register hashes the password and stores a new credential.
// Returns credential.ErrAlreadyExists when the username is taken.
func (s *Service) Register(ctx context.Context, username, plaintext string) error {
	if username == "" {
		return fmt.Errorf("session: empty username")
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return fmt.Errorf("session: hash password: %w", err)
	}

	return s.store.Create(ctx, username, hash)
}

// Login verifies the credential and issues a token with the configured TTL.
// Unknown username and wrong password return the identical
// ErrUnauthenticated; a dummy verification keeps the unknown-username path
// from returning measurably faster.
func (s *Service) Login(ctx context.Context, username, plaintext string, now time.Time) (string, time.Time, error) {
	rec, err := s.store.Lookup(ctx, username)
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			if s.dummyHash != "" {
				_, _ = s.hasher.Verify(plaintext, s.dummyHash)
			}
			return "", time.Time{}, ErrUnauthenticated
		}
		return "", time.Time{}, fmt.Errorf("session: login lookup: %w", err)
	}

	ok, err := s.hasher.Verify(plaintext, rec.PasswordHash)
	if err != nil || !ok {
		return "", time.Time{}, ErrUnauthenticated
	}

	return s.codec.Issue(username, now, s.cfg.TokenTTL)
}

// Inspect decodes a token without any temporal check.
func (s *Service) Inspect(token string) (Claims, error) {
	return s.codec.Decode(token)
}

// Verify decodes a token and additionally requires that it has not expired.
// Expired and malformed tokens fail identically with ErrInvalidToken.
func (s *Service) Verify(token string, now time.Time) (Claims, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return Claims{}, err
	}
	if !claims.ExpiresAt.After(now) {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// IsNearExpiry reports whether the token's remaining lifetime is at or below
// threshold. An undecodable token counts as near expiry on purpose: it
// routes toward rejection rather than silent continuation.
func (s *Service) IsNearExpiry(token string, threshold time.Duration, now time.Time) bool {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return true
	}
	return claims.ExpiresAt.Sub(now) <= threshold
}

// RefreshIfNeeded mints a brand-new token for the same subject with a full
// fresh TTL when the presented token is decodable and near expiry.
//
// The outcome is a three-way tag: Refreshed (token returned), NotNeeded
// (still fresh, no token), or Invalid (not decodable, no token). Because
// RefreshThreshold < TokenTTL, a refreshed token always expires strictly
// later than the one it replaces.
func (s *Service) RefreshIfNeeded(token string, threshold time.Duration, now time.Time) (string, time.Time, RefreshOutcome, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		return "", time.Time{}, RefreshOutcomeInvalid, nil
	}

	if claims.ExpiresAt.Sub(now) > threshold {
		return "", time.Time{}, RefreshOutcomeNotNeeded, nil
	}

	newToken, exp, err := s.codec.Issue(claims.Subject, now, s.cfg.TokenTTL)
	if err != nil {
		return "", time.Time{}, RefreshOutcomeInvalid, fmt.Errorf("session: refresh issue: %w", err)
	}
	return newToken, exp, RefreshOutcomeRefreshed, nil
}
