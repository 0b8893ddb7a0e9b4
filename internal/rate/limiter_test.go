package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, cfg Config) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb, cfg), mr
}

func TestBudgetExhaustion(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxFailures: 3, Cooldown: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := l.CheckSignIn(ctx, "user@example.com", "192.0.2.1"); err != nil {
			t.Fatalf("attempt %d: unexpected check failure: %v", i+1, err)
		}
		if err := l.RecordFailure(ctx, "user@example.com", "192.0.2.1"); err != nil {
			t.Fatalf("attempt %d: unexpected record failure: %v", i+1, err)
		}
	}

	// Fourth failure exceeds the budget.
	if err := l.RecordFailure(ctx, "user@example.com", "192.0.2.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if err := l.CheckSignIn(ctx, "user@example.com", "192.0.2.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected subsequent checks limited, got %v", err)
	}
}

func TestPerIPBudgetIsIndependentOfIdentifier(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxFailures: 2, Cooldown: time.Minute})
	ctx := context.Background()

	// Same IP cycling through identifiers still burns the IP budget.
	for i, id := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		err := l.RecordFailure(ctx, id, "192.0.2.9")
		if i < 2 && err != nil {
			t.Fatalf("attempt %d: unexpected failure: %v", i+1, err)
		}
		if i == 2 && !errors.Is(err, ErrRateLimited) {
			t.Fatalf("expected IP budget exhausted, got %v", err)
		}
	}

	// A fresh identifier from that IP is rejected on check.
	if err := l.CheckSignIn(ctx, "d@example.com", "192.0.2.9"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected IP-scoped rejection, got %v", err)
	}
	// The same identifier from another IP is untouched.
	if err := l.CheckSignIn(ctx, "d@example.com", "198.51.100.1"); err != nil {
		t.Fatalf("expected other IP unaffected, got %v", err)
	}
}

func TestResetClearsBudget(t *testing.T) {
	l, _ := newTestLimiter(t, Config{MaxFailures: 1, Cooldown: time.Minute})
	ctx := context.Background()

	if err := l.RecordFailure(ctx, "user@example.com", "192.0.2.1"); err != nil {
		t.Fatalf("unexpected record failure: %v", err)
	}
	if err := l.RecordFailure(ctx, "user@example.com", "192.0.2.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	if err := l.Reset(ctx, "user@example.com", "192.0.2.1"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if err := l.CheckSignIn(ctx, "user@example.com", "192.0.2.1"); err != nil {
		t.Fatalf("expected budget cleared, got %v", err)
	}
}

func TestWindowExpiry(t *testing.T) {
	l, mr := newTestLimiter(t, Config{MaxFailures: 1, Cooldown: time.Minute})
	ctx := context.Background()

	if err := l.RecordFailure(ctx, "user@example.com", ""); err != nil {
		t.Fatalf("unexpected record failure: %v", err)
	}
	if err := l.RecordFailure(ctx, "user@example.com", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if err := l.CheckSignIn(ctx, "user@example.com", ""); err != nil {
		t.Fatalf("expected fresh window, got %v", err)
	}
	if err := l.RecordFailure(ctx, "user@example.com", ""); err != nil {
		t.Fatalf("expected fresh budget, got %v", err)
	}
}

func TestRedisUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	l := New(rdb, Config{MaxFailures: 1, Cooldown: time.Minute})

	mr.Close()

	ctx := context.Background()
	if err := l.CheckSignIn(ctx, "user@example.com", "192.0.2.1"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on check, got %v", err)
	}
	if err := l.RecordFailure(ctx, "user@example.com", "192.0.2.1"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on record, got %v", err)
	}
	if err := l.Reset(ctx, "user@example.com", "192.0.2.1"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on reset, got %v", err)
	}
}
