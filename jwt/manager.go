package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the signature algorithm for issued tokens.
type SigningMethod string

const (
	// MethodHS256 signs with a shared secret.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with an Ed25519 private key.
	MethodEd25519 SigningMethod = "ed25519"
)

// ErrTokenInvalid is the uniform verification failure. Bad signature, wrong
// issuer or audience, expiry, and a wrong token kind all map to it.
var ErrTokenInvalid = errors.New("jwt: invalid token")

// Token kinds are stamped into the typ claim at issue time so that the two
// token families cannot stand in for each other: both share key, issuer, and
// audience, and only the claim separates a 5-minute access token from a
// 7-day refresh token.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Config holds the immutable signing configuration. Issuer and Audience are
// required; both are enforced on every parse.
type Config struct {
	SigningMethod SigningMethod
	Secret        []byte // HS256 shared secret, or Ed25519 seed/private key
	Issuer        string
	Audience      string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Leeway        time.Duration
}

// Manager signs and verifies access and refresh tokens. It is immutable after
// construction and safe for concurrent use.
type Manager struct {
	config Config
	now    func() time.Time
}

// AccessClaims is the access-token payload. Never persisted; it lives only
// inside a signed token.
type AccessClaims struct {
	TokenType   string   `json:"typ"`
	Email       string   `json:"email,omitempty"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// RefreshClaims is the refresh-token payload. RefreshTokenID is the only
// field validated against server state.
type RefreshClaims struct {
	TokenType      string `json:"typ"`
	RefreshTokenID string `json:"rti"`
	jwt.RegisteredClaims
}

// NewManager validates cfg and returns a ready Manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("jwt: invalid TTL configuration")
	}
	if cfg.RefreshTTL <= cfg.AccessTTL {
		return nil, errors.New("jwt: refresh TTL must exceed access TTL")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("jwt: invalid leeway configuration")
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, errors.New("jwt: issuer and audience are required")
	}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.Secret) < 32 {
			return nil, errors.New("jwt: hs256 requires a secret of at least 32 bytes")
		}
	case MethodEd25519:
		if _, err := edPrivateKey(cfg.Secret); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("jwt: unsupported signing method")
	}

	return &Manager{config: cfg, now: time.Now}, nil
}

// CreateAccess issues a short-lived access token for the given subject.
// Permissions must be pre-sorted by the caller for deterministic encoding.
func (m *Manager) CreateAccess(subject, email, role string, permissions []string) (string, error) {
	if m == nil {
		return "", ErrTokenInvalid
	}
	now := m.now()
	claims := AccessClaims{
		TokenType:   tokenTypeAccess,
		Email:       email,
		Role:        role,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.config.Issuer,
			Audience:  jwt.ClaimStrings{m.config.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AccessTTL)),
		},
	}
	return m.sign(claims)
}

// CreateRefresh issues a long-lived refresh token carrying the rotation
// identifier.
func (m *Manager) CreateRefresh(subject, refreshTokenID string) (string, error) {
	if m == nil {
		return "", ErrTokenInvalid
	}
	if refreshTokenID == "" {
		return "", errors.New("jwt: empty refresh token id")
	}
	now := m.now()
	claims := RefreshClaims{
		TokenType:      tokenTypeRefresh,
		RefreshTokenID: refreshTokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.config.Issuer,
			Audience:  jwt.ClaimStrings{m.config.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.RefreshTTL)),
		},
	}
	return m.sign(claims)
}

// ParseAccess verifies an access token and returns its claims, or
// ErrTokenInvalid on any mismatch. A refresh token is a mismatch even though
// its signature verifies.
func (m *Manager) ParseAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseRefresh verifies a refresh token and returns its claims, or
// ErrTokenInvalid on any mismatch. A wrong typ claim or a missing rti claim
// is a mismatch.
func (m *Manager) ParseRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tokenStr, claims); err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh || claims.RefreshTokenID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (m *Manager) sign(claims jwt.Claims) (string, error) {
	key, err := m.signKey()
	if err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(m.method(), claims)
	return token.SignedString(key)
}

func (m *Manager) parse(tokenStr string, claims jwt.Claims) error {
	if m == nil {
		return ErrTokenInvalid
	}
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method().Alg()}),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.method().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.verifyKey()
	})
	if err != nil || !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}

func (m *Manager) method() jwt.SigningMethod {
	if m.config.SigningMethod == MethodEd25519 {
		return jwt.SigningMethodEdDSA
	}
	return jwt.SigningMethodHS256
}

func (m *Manager) signKey() (interface{}, error) {
	if m.config.SigningMethod == MethodEd25519 {
		return edPrivateKey(m.config.Secret)
	}
	return m.config.Secret, nil
}

func (m *Manager) verifyKey() (interface{}, error) {
	if m.config.SigningMethod == MethodEd25519 {
		priv, err := edPrivateKey(m.config.Secret)
		if err != nil {
			return nil, err
		}
		return priv.Public(), nil
	}
	return m.config.Secret, nil
}

func edPrivateKey(raw []byte) (ed25519.PrivateKey, error) {
	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	default:
		return nil, errors.New("jwt: ed25519 key must be a 32-byte seed or 64-byte private key")
	}
}
