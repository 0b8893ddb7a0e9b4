// Package rate implements the fixed-window Redis counters that throttle
// repeated sign-in failures per identifier and per client IP.
package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrRateLimited signals the attempt budget is exhausted for the window.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps Redis transport failures.
	ErrRedisUnavailable = errors.New("redis unavailable")
)

// Config holds limiter tuning parameters.
type Config struct {
	MaxFailures int
	Cooldown    time.Duration
}

// Limiter enforces per-identifier and per-IP sign-in budgets using Redis
// counters. Only failed attempts consume budget; a success clears it.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{redis: redisClient, config: cfg}
}

// CheckSignIn reports whether the identifier+IP pair is still within budget.
func (l *Limiter) CheckSignIn(ctx context.Context, identifier, ip string) error {
	if err := l.checkCounter(ctx, signInKey(identifier)); err != nil {
		return err
	}
	if ip != "" {
		if err := l.checkCounter(ctx, ipKey(ip)); err != nil {
			return err
		}
	}
	return nil
}

// RecordFailure consumes one unit of budget for the identifier+IP pair and
// reports ErrRateLimited when the budget is now exhausted.
func (l *Limiter) RecordFailure(ctx context.Context, identifier, ip string) error {
	count, err := l.incrementWithTTL(ctx, signInKey(identifier))
	if err != nil {
		return err
	}
	if count > int64(l.config.MaxFailures) {
		return ErrRateLimited
	}

	if ip != "" {
		count, err = l.incrementWithTTL(ctx, ipKey(ip))
		if err != nil {
			return err
		}
		if count > int64(l.config.MaxFailures) {
			return ErrRateLimited
		}
	}
	return nil
}

// Reset clears the failure counters after a successful sign-in.
func (l *Limiter) Reset(ctx context.Context, identifier, ip string) error {
	keys := []string{signInKey(identifier)}
	if ip != "" {
		keys = append(keys, ipKey(ip))
	}
	if err := l.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (l *Limiter) checkCounter(ctx context.Context, key string) error {
	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count > int64(l.config.MaxFailures) {
		return ErrRateLimited
	}
	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Cooldown).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return count, nil
}

func signInKey(identifier string) string {
	return "goiam:rl:id:" + identifier
}

func ipKey(ip string) string {
	return "goiam:rl:ip:" + ip
}
