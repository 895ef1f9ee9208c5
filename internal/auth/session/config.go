package session

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config defines all runtime configuration for the session subsystem.
//
// It is constructed once at startup and injected into the Service and the
// HTTP layer; nothing in this package reads process-wide mutable state at
// request time.
type Config struct {
	// SecretKey is the process-wide symmetric signing key. Required.
	SecretKey string

	// TokenTTL is the lifetime of newly issued tokens.
	TokenTTL time.Duration

	// RefreshThreshold is the remaining lifetime at or below which a token
	// is considered near expiry and gets proactively reissued. Must be
	// shorter than TokenTTL (this is what makes refresh monotonic).
	RefreshThreshold time.Duration

	// CookieName names the session transport cookie.
	CookieName string

	// CookieSecure marks the session cookie Secure (HTTPS-only deployments).
	CookieSecure bool
}

// DefaultConfig returns the current policy defaults. The TTL used to be
// 30 minutes; treat it as configuration, not a constant.
func DefaultConfig() Config {
	return Config{
		TokenTTL:         24 * time.Hour,
		RefreshThreshold: 2 * time.Hour,
		CookieName:       "access_token",
		CookieSecure:     false,
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Required:
//   - PARLEY_SECRET_KEY
//
// Optional:
//   - PARLEY_TOKEN_TTL
//   - PARLEY_REFRESH_THRESHOLD
//   - PARLEY_COOKIE_NAME
//   - PARLEY_COOKIE_SECURE
//
// Returns ErrConfig when the secret is missing or the values are
// inconsistent; the caller is expected to abort startup.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("PARLEY_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.TokenTTL = d
	}

	if v := os.Getenv("PARLEY_REFRESH_THRESHOLD"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.RefreshThreshold = d
	}

	if v := strings.TrimSpace(os.Getenv("PARLEY_COOKIE_NAME")); v != "" {
		cfg.CookieName = v
	}

	if v := os.Getenv("PARLEY_COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return Config{}, ErrConfig
		}
		cfg.CookieSecure = b
	}

	cfg.SecretKey = os.Getenv("PARLEY_SECRET_KEY")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the invariants LoadConfigFromEnv relies on.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SecretKey) == "" {
		return ErrConfig
	}
	if c.TokenTTL <= 0 || c.RefreshThreshold <= 0 {
		return ErrConfig
	}
	if c.RefreshThreshold >= c.TokenTTL {
		return ErrConfig
	}
	if strings.TrimSpace(c.CookieName) == "" {
		return ErrConfig
	}
	return nil
}
