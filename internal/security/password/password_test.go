package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func fastBcryptConfig() Config {
	cfg := DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost
	return cfg
}

func fastArgon2Config() Config {
	cfg := DefaultConfig()
	cfg.Algorithm = AlgoArgon2id
	cfg.Argon2id.MemoryKiB = 8 * 1024
	cfg.Argon2id.Iterations = 1
	return cfg
}

func TestHashVerify_Bcrypt_RoundTrip(t *testing.T) {
	cfg := fastBcryptConfig()

	digest, err := cfg.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Fatalf("expected bcrypt digest, got %q", digest)
	}

	ok, err := cfg.Verify("correct horse battery staple", digest)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}

	ok, err = cfg.Verify("wrong password", digest)
	if err != nil {
		t.Fatalf("Verify mismatch: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestHash_SaltedDigestsDiffer(t *testing.T) {
	cfg := fastBcryptConfig()

	d1, err := cfg.Hash("same password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	d2, err := cfg.Hash("same password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if d1 == d2 {
		t.Fatalf("expected distinct digests for same input")
	}
}

func TestHash_EmptyPassword(t *testing.T) {
	cfg := fastBcryptConfig()
	if _, err := cfg.Hash(""); !errors.Is(err, ErrPasswordEmpty) {
		t.Fatalf("expected ErrPasswordEmpty, got %v", err)
	}
}

func TestHash_Bcrypt_TooLong(t *testing.T) {
	cfg := fastBcryptConfig()
	if _, err := cfg.Hash(strings.Repeat("a", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	// 72 bytes is still accepted.
	if _, err := cfg.Hash(strings.Repeat("a", 72)); err != nil {
		t.Fatalf("72-byte password: %v", err)
	}
}

func TestHashVerify_Argon2id_RoundTrip(t *testing.T) {
	cfg := fastArgon2Config()

	digest, err := cfg.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$v=19$") {
		t.Fatalf("unexpected digest shape: %q", digest)
	}

	ok, err := cfg.Verify("s3cret", digest)
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}

	ok, err = cfg.Verify("not it", digest)
	if err != nil {
		t.Fatalf("Verify mismatch: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestVerify_DispatchByDigestPrefix(t *testing.T) {
	// A bcrypt digest keeps verifying even when argon2id is the configured
	// default for new hashes.
	bc := fastBcryptConfig()
	digest, err := bc.Hash("legacy password")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	ar := fastArgon2Config()
	ok, err := ar.Verify("legacy password", digest)
	if err != nil || !ok {
		t.Fatalf("expected legacy bcrypt digest to verify, got ok=%v err=%v", ok, err)
	}
}

func TestVerify_MalformedDigest(t *testing.T) {
	cfg := fastBcryptConfig()

	for _, digest := range []string{
		"",
		"plainly not a digest",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA",
		"$argon2id$broken",
		"$2z$10$notarealbcryptdigest",
	} {
		if _, err := cfg.Verify("whatever", digest); !errors.Is(err, ErrInvalidHash) {
			t.Fatalf("digest %q: expected ErrInvalidHash, got %v", digest, err)
		}
	}
}

func TestVerify_Argon2id_RefusesOversizedParams(t *testing.T) {
	cfg := fastArgon2Config()

	// Well-formed digest claiming far more memory than configured.
	digest := "$argon2id$v=19$m=1048576,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2hoYXNoaGFzaA"
	if _, err := cfg.Verify("whatever", digest); !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash for oversized params, got %v", err)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Algorithm != AlgoBcrypt {
		t.Fatalf("expected bcrypt default, got %q", cfg.Algorithm)
	}
	if cfg.BcryptCost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", cfg.BcryptCost)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PARLEY_PASSWORD_ALGO", "argon2id")
	t.Setenv("PARLEY_ARGON2_MEMORY_KIB", "16384")
	t.Setenv("PARLEY_ARGON2_ITERATIONS", "2")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Algorithm != AlgoArgon2id {
		t.Fatalf("algo mismatch: %q", cfg.Algorithm)
	}
	if cfg.Argon2id.MemoryKiB != 16384 || cfg.Argon2id.Iterations != 2 {
		t.Fatalf("argon2 params mismatch: %+v", cfg.Argon2id)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("PARLEY_PASSWORD_ALGO", "scrypt")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for unknown algorithm")
	}

	t.Setenv("PARLEY_PASSWORD_ALGO", "bcrypt")
	t.Setenv("PARLEY_BCRYPT_COST", "99")
	if _, err := FromEnv(); err == nil {
		t.Fatalf("expected error for out-of-range cost")
	}
}
