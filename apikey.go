package goIAM

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// APIKeyValidator resolves a presented API key to its principal. Return
// [ErrUnauthenticated] (possibly wrapped) for unknown or revoked keys.
type APIKeyValidator interface {
	Validate(ctx context.Context, key string) (*Principal, error)
}

// StaticAPIKeys validates keys against a fixed table built at startup. Keys
// are held as SHA-256 digests, never plaintext, and compared in constant
// time. Suited to small machine-to-machine key sets; anything dynamic should
// implement [APIKeyValidator] against its own store.
type StaticAPIKeys struct {
	entries []staticKeyEntry
}

type staticKeyEntry struct {
	digest    [sha256.Size]byte
	principal Principal
}

// NewStaticAPIKeys builds a validator from plaintext key → principal pairs.
// The principal values are copied; later mutation of the map has no effect.
func NewStaticAPIKeys(keys map[string]Principal) *StaticAPIKeys {
	v := &StaticAPIKeys{entries: make([]staticKeyEntry, 0, len(keys))}
	for key, principal := range keys {
		v.entries = append(v.entries, staticKeyEntry{
			digest:    sha256.Sum256([]byte(key)),
			principal: principal,
		})
	}
	return v
}

// Validate implements [APIKeyValidator]. Every entry is compared so timing
// does not reveal which digest matched.
func (v *StaticAPIKeys) Validate(_ context.Context, key string) (*Principal, error) {
	if v == nil || key == "" {
		return nil, ErrUnauthenticated
	}
	presented := sha256.Sum256([]byte(key))

	var match *Principal
	for i := range v.entries {
		if subtle.ConstantTimeCompare(v.entries[i].digest[:], presented[:]) == 1 {
			match = &v.entries[i].principal
		}
	}
	if match == nil {
		return nil, ErrUnauthenticated
	}
	out := *match
	out.Permissions = match.Permissions.Clone()
	return &out, nil
}

// DigestHex returns the hex SHA-256 of key, for operators provisioning key
// tables out of band.
func DigestHex(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
