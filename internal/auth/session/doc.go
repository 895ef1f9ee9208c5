// Package session implements parley's stateless session model: issuing,
// verifying, and proactively refreshing signed bearer tokens.
//
// A token is a compact HS256-signed claim set {sub, iat, exp}. Validity is
// entirely determined by the signature and the expiry instant; the server
// keeps no session table and no revocation list. The consequence is
// documented rather than hidden: a leaked token stays usable until it
// expires, and logout can only clear the client's copy.
//
// The Codec verifies signature and structure only. Expiry is a separate
// temporal check owned by the Service, so callers can ask "is this token
// about to expire" without first deciding to reject it.
package session
