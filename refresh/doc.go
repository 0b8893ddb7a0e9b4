// Package refresh implements the server-side refresh session store: one live
// refresh-token identifier per principal, held in Redis.
//
// # Single-slot design
//
// Each rotation overwrites the principal's slot with the newest identifier.
// Any token carrying an identifier that does not match the slot is provably
// not the most recently issued one, replayed or stolen, so validation
// deletes the slot and fails. The damage from a theft is bounded to one
// missed legitimate refresh; recovery requires a fresh sign-in.
//
// # Atomicity
//
// ValidateAndInvalidate runs a single Lua script (read, delete, compare), so
// two concurrent refresh attempts with the same stale identifier resolve to
// exactly one winner.
//
// # What this package must NOT do
//
//   - Parse or verify tokens; it only compares opaque identifiers.
//   - Issue tokens or decide what a reuse means; the engine maps
//     ErrReuseDetected to its public error surface.
package refresh
