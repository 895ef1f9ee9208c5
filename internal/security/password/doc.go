// Package password provides password hashing and verification for parley.
//
// Two deliberately slow, salted schemes are supported:
//   - bcrypt (default): the scheme the credential store was seeded with.
//   - argon2id: PHC-encoded, for deployments that prefer memory-hard hashing.
//
// Verify dispatches on the digest prefix, so credentials hashed under either
// scheme keep verifying after the configured default changes (hash rotation
// happens lazily, not in bulk).
//
// Security notes:
//   - Digest strings are treated as untrusted input during Verify.
//   - Argon2id verification refuses hashes whose parameters exceed the
//     configured maximums by a large margin.
package password
