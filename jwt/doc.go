// Package jwt implements the signed-token codec for access and refresh
// tokens.
//
// Access tokens embed the principal's email, role, and permission names so
// the bearer guard can rebuild an authorization context without a store
// round-trip. Refresh tokens embed only the subject and the rotation
// identifier ("rti"); the identifier is the single field checked against
// server state.
//
// # Verification
//
// Parse enforces signing method, signature, issuer, audience, and expiry.
// All mismatches collapse into one failure shape; callers must not
// distinguish them outwardly.
//
// # What this package must NOT do
//
//   - Access Redis or any I/O. The codec is pure with respect to its
//     configured key material and the clock.
//   - Decide rotation or reuse policy; that belongs to the engine and the
//     refresh store.
package jwt
