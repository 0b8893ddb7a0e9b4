package goIAM

import (
	"errors"
	"time"

	"github.com/MrEthical07/goIAM/jwt"
	"github.com/MrEthical07/goIAM/password"
	"github.com/MrEthical07/goIAM/permission"
)

// Config is the immutable engine configuration. It is validated and cloned by
// [Builder.Build]; mutating it afterwards has no effect on a running engine.
type Config struct {
	JWT       JWTConfig
	Refresh   RefreshConfig
	Password  password.Config
	TFA       TFAConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig

	// DefaultSocialPermissions are granted to principals created by first
	// social sign-in.
	DefaultSocialPermissions []permission.Permission
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures the token codec. Secret is the HS256 secret or
// Ed25519 seed depending on SigningMethod.
type JWTConfig struct {
	SigningMethod string // "hs256" (default) or "ed25519"
	Secret        []byte
	Issuer        string
	Audience      string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Leeway        time.Duration
}

/*
====================================
REFRESH SESSION CONFIG
====================================
*/

// RefreshConfig configures the Redis-backed refresh session store.
type RefreshConfig struct {
	RedisPrefix string
}

/*
====================================
TFA CONFIG
====================================
*/

// TFAConfig configures the time-based one-time-password verifier.
type TFAConfig struct {
	Issuer    string
	Digits    int
	Period    int // seconds per time step
	Algorithm string
	Skew      int // adjacent time steps tolerated on verify
}

/*
====================================
RATE LIMIT CONFIG
====================================
*/

// RateLimitConfig tunes the optional Redis-backed sign-in throttle. Disabled
// by default.
type RateLimitConfig struct {
	Enabled           bool
	MaxSignInFailures int
	Cooldown          time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher. Emission never
// blocks a flow; events beyond BufferSize are dropped and counted.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
}

// DefaultConfig returns safe defaults: HS256, 5-minute access tokens,
// 7-day refresh tokens, 6-digit 30-second TOTP with one step of skew.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			SigningMethod: string(jwt.MethodHS256),
			Issuer:        "goiam",
			Audience:      "goiam",
			AccessTTL:     5 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
			Leeway:        30 * time.Second,
		},
		Refresh: RefreshConfig{
			RedisPrefix: "goiam",
		},
		Password: password.DefaultConfig(),
		TFA: TFAConfig{
			Issuer:    "goiam",
			Digits:    6,
			Period:    30,
			Algorithm: "SHA1",
			Skew:      1,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			MaxSignInFailures: 10,
			Cooldown:          5 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
		},
	}
}

func validateConfig(cfg Config) error {
	if cfg.JWT.AccessTTL <= 0 || cfg.JWT.RefreshTTL <= 0 {
		return errors.New("goIAM: access and refresh TTLs must be positive")
	}
	if cfg.JWT.RefreshTTL <= cfg.JWT.AccessTTL {
		return errors.New("goIAM: refresh TTL must exceed access TTL")
	}
	if len(cfg.JWT.Secret) == 0 {
		return errors.New("goIAM: signing secret is required")
	}
	if cfg.JWT.Issuer == "" || cfg.JWT.Audience == "" {
		return errors.New("goIAM: issuer and audience are required")
	}
	if cfg.TFA.Digits < 6 || cfg.TFA.Digits > 10 {
		return errors.New("goIAM: tfa digits must be between 6 and 10")
	}
	if cfg.TFA.Period <= 0 {
		return errors.New("goIAM: tfa period must be positive")
	}
	if cfg.TFA.Skew < 0 || cfg.TFA.Skew > 2 {
		return errors.New("goIAM: tfa skew must be between 0 and 2")
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.MaxSignInFailures <= 0 || cfg.RateLimit.Cooldown <= 0 {
			return errors.New("goIAM: rate limit requires positive budget and cooldown")
		}
	}
	if cfg.Audit.Enabled && cfg.Audit.BufferSize <= 0 {
		return errors.New("goIAM: audit buffer size must be positive")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = append([]byte(nil), cfg.JWT.Secret...)
	out.DefaultSocialPermissions = append([]permission.Permission(nil), cfg.DefaultSocialPermissions...)
	return out
}
