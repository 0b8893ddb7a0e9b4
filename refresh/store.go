package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrReuseDetected is returned when the presented identifier does not match
// the principal's current slot, or when no slot exists. In both cases the
// slot is gone afterwards: the store fails closed until the next sign-in.
var ErrReuseDetected = errors.New("refresh: reuse detected")

// ErrBackendUnavailable wraps Redis transport failures.
var ErrBackendUnavailable = errors.New("refresh: backend unavailable")

const (
	validateStatusMatch    int64 = 1
	validateStatusMismatch int64 = 0
)

// Atomic read-compare-delete. The slot is deleted regardless of match so a
// mismatch invalidates the whole session, not just the presented token.
const validateAndInvalidateScript = `
local current = redis.call("GET", KEYS[1])
if current == false then
  return 0
end
redis.call("DEL", KEYS[1])
if current == ARGV[1] then
  return 1
end
return 0
`

var validateAndInvalidateLua = redis.NewScript(validateAndInvalidateScript)

// Store keeps the current refresh-token identifier per principal. All
// operations are per-key atomic; no cross-principal coordination exists.
type Store struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration

	ownsClient bool
}

// NewStore wraps a caller-owned Redis client. Close will not close the
// client. ttl bounds how long an unused slot survives and should equal the
// refresh-token TTL.
func NewStore(client redis.UniversalClient, prefix string, ttl time.Duration) *Store {
	if prefix == "" {
		prefix = "goiam"
	}
	return &Store{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// NewStoreAddr dials addr and returns a Store that owns its client; Close
// tears the connection down.
func NewStoreAddr(addr, prefix string, ttl time.Duration) *Store {
	s := NewStore(redis.NewClient(&redis.Options{Addr: addr}), prefix, ttl)
	s.ownsClient = true
	return s
}

// Insert unconditionally overwrites the principal's slot with tokenID. This
// is the rotation commit: after Insert returns, tokenID is the only
// identifier the next refresh will accept.
func (s *Store) Insert(ctx context.Context, principalID, tokenID string) error {
	if err := s.redis.Set(ctx, s.key(principalID), tokenID, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

// ValidateAndInvalidate atomically consumes the principal's slot. A match
// returns nil; a mismatch or missing slot returns ErrReuseDetected. Either
// way the slot is deleted, so exactly one of any set of concurrent callers
// presenting the same identifier succeeds.
func (s *Store) ValidateAndInvalidate(ctx context.Context, principalID, tokenID string) error {
	status, err := validateAndInvalidateLua.Run(ctx, s.redis, []string{s.key(principalID)}, tokenID).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if status != validateStatusMatch {
		return ErrReuseDetected
	}
	return nil
}

// Invalidate deletes the principal's slot unconditionally. Used for explicit
// logout and as the response to detected theft. Idempotent.
func (s *Store) Invalidate(ctx context.Context, principalID string) error {
	if err := s.redis.Del(ctx, s.key(principalID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return nil
}

// Close releases the Redis client when the Store owns it (NewStoreAddr).
// For caller-owned clients it is a no-op.
func (s *Store) Close() error {
	if s == nil || !s.ownsClient {
		return nil
	}
	return s.redis.Close()
}

func (s *Store) key(principalID string) string {
	return s.prefix + ":rt:" + principalID
}
