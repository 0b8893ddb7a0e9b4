package goIAM

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/MrEthical07/goIAM/permission"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	return cfg
}

// newTestEngine builds an engine against miniredis and an empty in-memory
// principal store. The cleanup runs automatically at test end.
func newTestEngine(t *testing.T, cfg Config, opts ...func(*Builder)) (*Engine, *fakeStore, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := newFakeStore()
	builder := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithPrincipalStore(store)
	for _, opt := range opts {
		opt(builder)
	}

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	return engine, store, rdb
}

// signUpAndGet registers a principal and returns its stored record.
func signUpAndGet(t *testing.T, engine *Engine, store *fakeStore, email, pass string) *Principal {
	t.Helper()

	if err := engine.SignUp(context.Background(), email, pass); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	principal, err := store.FindByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("stored principal lookup failed: %v", err)
	}
	return principal
}

// fakeStore is an in-memory PrincipalStore with the uniqueness semantics the
// engine expects from a real backend.
type fakeStore struct {
	mu     sync.Mutex
	nextID int
	byID   map[string]*Principal

	// createErr, when set, is returned by Create to model backend failures.
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: make(map[string]*Principal)}
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byID {
		if p.Email == email {
			out := *p
			return &out, nil
		}
	}
	return nil, ErrPrincipalNotFound
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.byID[id]; ok {
		out := *p
		return &out, nil
	}
	return nil, ErrPrincipalNotFound
}

func (s *fakeStore) FindByExternalID(_ context.Context, externalID string) (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.byID {
		if p.ExternalID != "" && p.ExternalID == externalID {
			out := *p
			return &out, nil
		}
	}
	return nil, ErrPrincipalNotFound
}

func (s *fakeStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if errors.Is(err, ErrPrincipalNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *fakeStore) Create(_ context.Context, input CreatePrincipalInput) (*Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, p := range s.byID {
		if p.Email == input.Email {
			return nil, ErrPrincipalExists
		}
		if input.ExternalID != "" && p.ExternalID == input.ExternalID {
			return nil, ErrPrincipalExists
		}
	}
	s.nextID++
	role := input.Role
	if role == "" {
		role = RoleRegular
	}
	p := &Principal{
		ID:           "p-" + strconv.Itoa(s.nextID),
		Email:        input.Email,
		Role:         role,
		Permissions:  input.Permissions.Clone(),
		ExternalID:   input.ExternalID,
		PasswordHash: input.PasswordHash,
	}
	s.byID[p.ID] = p
	out := *p
	return &out, nil
}

func (s *fakeStore) Update(_ context.Context, id string, update PrincipalUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return ErrPrincipalNotFound
	}
	if update.TFAEnabled != nil {
		p.TFAEnabled = *update.TFAEnabled
	}
	if update.TFASecret != nil {
		p.TFASecret = append([]byte(nil), update.TFASecret...)
	}
	if update.TFALastCounter != nil {
		p.TFALastCounter = *update.TFALastCounter
	}
	return nil
}

func (s *fakeStore) grant(t *testing.T, id string, perms ...permission.Permission) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		t.Fatalf("unknown principal %q", id)
	}
	for _, perm := range perms {
		p.Permissions = p.Permissions.Add(perm)
	}
}
