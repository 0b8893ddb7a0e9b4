package goIAM

import (
	"errors"

	"github.com/MrEthical07/goIAM/internal/rate"
	"github.com/MrEthical07/goIAM/jwt"
	"github.com/MrEthical07/goIAM/password"
	"github.com/MrEthical07/goIAM/refresh"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine] from explicit collaborators. Construction is
// allocation-only; no I/O happens until engine methods run. Every dependency
// is passed by reference here rather than discovered at runtime.
type Builder struct {
	config Config

	redisClient *redis.Client
	redisAddr   string

	principals PrincipalStore
	hasher     Hasher
	identity   IdentityProvider
	apiKeys    APIKeyValidator
	auditSink  AuditSink

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies a caller-owned Redis client for the refresh session
// store and the sign-in rate limiter. Engine.Close will not close it.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redisClient = client
	return b
}

// WithRedisAddr makes the engine dial and own its Redis connection;
// Engine.Close tears it down. Mutually exclusive with WithRedis.
func (b *Builder) WithRedisAddr(addr string) *Builder {
	b.redisAddr = addr
	return b
}

// WithPrincipalStore supplies the external principal persistence.
func (b *Builder) WithPrincipalStore(store PrincipalStore) *Builder {
	b.principals = store
	return b
}

// WithHasher overrides the default Argon2id hashing collaborator.
func (b *Builder) WithHasher(h Hasher) *Builder {
	b.hasher = h
	return b
}

// WithIdentityProvider supplies the external identity provider used by
// SocialSignIn. Optional; without it SocialSignIn fails ErrUnauthenticated.
func (b *Builder) WithIdentityProvider(p IdentityProvider) *Builder {
	b.identity = p
	return b
}

// WithAPIKeyValidator supplies the validator backing the API-key guard.
// Optional; without it the APIKey auth type always denies.
func (b *Builder) WithAPIKeyValidator(v APIKeyValidator) *Builder {
	b.apiKeys = v
	return b
}

// WithAuditSink supplies the audit event consumer. Ignored unless
// Config.Audit.Enabled is set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration, wires the collaborators, and returns a
// ready Engine. A Builder must not be reused after a successful Build.
func (b *Builder) Build() (*Engine, error) {
	if b == nil {
		return nil, ErrEngineNotReady
	}
	if b.built {
		return nil, errors.New("goIAM: builder already used")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}
	if b.principals == nil {
		return nil, errors.New("goIAM: principal store is required")
	}
	if b.redisClient != nil && b.redisAddr != "" {
		return nil, errors.New("goIAM: WithRedis and WithRedisAddr are mutually exclusive")
	}
	if b.redisClient == nil && b.redisAddr == "" {
		return nil, errors.New("goIAM: redis client or address is required")
	}

	codec, err := jwt.NewManager(jwt.Config{
		SigningMethod: jwt.SigningMethod(b.config.JWT.SigningMethod),
		Secret:        b.config.JWT.Secret,
		Issuer:        b.config.JWT.Issuer,
		Audience:      b.config.JWT.Audience,
		AccessTTL:     b.config.JWT.AccessTTL,
		RefreshTTL:    b.config.JWT.RefreshTTL,
		Leeway:        b.config.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	hasher := b.hasher
	if hasher == nil {
		argon, err := password.NewArgon2(b.config.Password)
		if err != nil {
			return nil, err
		}
		hasher = argon
	}

	client := b.redisClient
	var ownedRedis *redis.Client
	if b.redisAddr != "" {
		client = redis.NewClient(&redis.Options{Addr: b.redisAddr})
		ownedRedis = client
	}
	store := refresh.NewStore(client, b.config.Refresh.RedisPrefix, b.config.JWT.RefreshTTL)

	var limiter *rate.Limiter
	if b.config.RateLimit.Enabled {
		limiter = rate.New(client, rate.Config{
			MaxFailures: b.config.RateLimit.MaxSignInFailures,
			Cooldown:    b.config.RateLimit.Cooldown,
		})
	}

	engine := &Engine{
		config:       b.config,
		principals:   b.principals,
		hasher:       hasher,
		codec:        codec,
		refreshStore: store,
		totp:         newTOTPManager(b.config.TFA),
		identity:     b.identity,
		apiKeys:      b.apiKeys,
		rateLimiter:  limiter,
		audit:        newAuditDispatcher(b.config.Audit, b.auditSink),
		metrics:      newMetrics(),
		ownedRedis:   ownedRedis,
	}
	engine.guards = buildGuardTable(engine)

	b.built = true
	return engine, nil
}
