package goIAM

import (
	"github.com/MrEthical07/goIAM/internal/rate"
	"github.com/MrEthical07/goIAM/jwt"
	"github.com/MrEthical07/goIAM/refresh"
	"github.com/redis/go-redis/v9"
)

// Engine is the authentication and authorization core. Build one through
// [Builder.Build]; after that every method is safe for concurrent use.
//
// The engine owns no principal data. It reads principals through the injected
// [PrincipalStore] and keeps exactly one piece of mutable shared state: the
// refresh session slot per principal, held in the refresh store.
type Engine struct {
	config       Config
	principals   PrincipalStore
	hasher       Hasher
	codec        *jwt.Manager
	refreshStore *refresh.Store
	totp         *totpManager
	identity     IdentityProvider
	apiKeys      APIKeyValidator
	rateLimiter  *rate.Limiter
	audit        *auditDispatcher
	metrics      *Metrics
	guards       map[AuthType][]guard

	// ownedRedis is non-nil only when the engine dialed its own connection
	// (Builder.WithRedisAddr); Close tears it down.
	ownedRedis *redis.Client
}

// Close drains the audit dispatcher and, when the engine owns the Redis
// connection (Builder.WithRedisAddr), closes it. Callers that supplied their
// own client keep responsibility for closing it.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	if e.audit != nil {
		e.audit.Close()
	}
	if e.ownedRedis != nil {
		return e.ownedRedis.Close()
	}
	return nil
}

// AuditDropped reports how many audit events were discarded because the
// dispatch buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) ready() bool {
	return e != nil &&
		e.principals != nil &&
		e.hasher != nil &&
		e.codec != nil &&
		e.refreshStore != nil &&
		e.totp != nil
}
