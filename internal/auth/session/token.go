package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded content of a session token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec signs and verifies compact session tokens (HS256 JWT with sub, iat,
// exp). Both issuance and verification use the same process clock source;
// clock skew is not compensated.
//
// Codec methods are pure in-memory computations with no shared mutable state
// beyond the read-only secret, so they need no locking.
type Codec struct {
	secret []byte
	parser *jwt.Parser
}

// NewCodec builds a Codec over the given symmetric secret.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrConfig
	}
	return &Codec{
		secret: secret,
		// Signature and structure only: expiry is checked by the caller
		// against the returned ExpiresAt, never inside the codec.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

// Issue signs a token for subject expiring at now + ttl. The expiry is
// encoded as an epoch timestamp with second granularity.
func (c *Codec) Issue(subject string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl).Truncate(time.Second)

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Decode verifies signature integrity and structural validity. Any failure
// (signature mismatch, malformed payload, missing claims) is normalized to
// ErrInvalidToken; the codec does not distinguish the cases. An authentic
// but expired token decodes successfully.
func (c *Codec) Decode(token string) (Claims, error) {
	var rc jwt.RegisteredClaims

	parsed, err := c.parser.ParseWithClaims(token, &rc, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if rc.Subject == "" || rc.ExpiresAt == nil {
		return Claims{}, ErrInvalidToken
	}

	out := Claims{
		Subject:   rc.Subject,
		ExpiresAt: rc.ExpiresAt.Time,
	}
	if rc.IssuedAt != nil {
		out.IssuedAt = rc.IssuedAt.Time
	}
	return out, nil
}
