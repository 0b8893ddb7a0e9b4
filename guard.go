package goIAM

import (
	"context"
	"errors"

	"github.com/MrEthical07/goIAM/permission"
)

// AuthType enumerates the authentication schemes a route may accept.
type AuthType uint8

const (
	// AuthNone marks an open route; its guard always succeeds with no
	// principal attached.
	AuthNone AuthType = iota
	// AuthBearer authenticates with a signed access token.
	AuthBearer
	// AuthAPIKey authenticates with a pre-shared API key.
	AuthAPIKey
)

// String returns the scheme name for diagnostics.
func (t AuthType) String() string {
	switch t {
	case AuthNone:
		return "none"
	case AuthBearer:
		return "bearer"
	case AuthAPIKey:
		return "api_key"
	default:
		return "unknown"
	}
}

// RouteDescriptor is the per-operation access declaration. Descriptors are
// built statically at service-registration time and passed in as plain data;
// nothing is discovered by reflection at request time.
//
// AuthTypes is an ordered set: guards are tried in declaration order and the
// first scheme that fully succeeds grants access. An empty slice means
// bearer-only.
type RouteDescriptor struct {
	AuthTypes   []AuthType
	Permissions []permission.Permission
	Policies    []Policy
	Role        Role
}

// Credentials carries the request's authentication material, extracted by
// the transport layer. Absent schemes are empty strings.
type Credentials struct {
	Bearer string
	APIKey string
}

// guard is one capability check for a single scheme. A nil principal with a
// nil error means "allowed, anonymous" (the None guard).
type guard func(ctx context.Context, creds Credentials) (*Principal, error)

var defaultAuthTypes = []AuthType{AuthBearer}

// buildGuardTable constructs the fixed AuthType dispatch table once at
// Build. A scheme may map to several checks run in sequence; all must pass
// for that scheme to succeed.
func buildGuardTable(e *Engine) map[AuthType][]guard {
	return map[AuthType][]guard{
		AuthNone:   {e.noneGuard},
		AuthBearer: {e.bearerGuard},
		AuthAPIKey: {e.apiKeyGuard},
	}
}

// Authenticate resolves route's declared auth types and tries each scheme's
// guard chain in order, granting access on the first full success (OR across
// types). On total failure it returns the last typed error observed,
// defaulting to [ErrUnauthenticated].
func (e *Engine) Authenticate(ctx context.Context, route RouteDescriptor, creds Credentials) (*Principal, error) {
	if e == nil || e.guards == nil {
		return nil, ErrEngineNotReady
	}

	authTypes := route.AuthTypes
	if len(authTypes) == 0 {
		authTypes = defaultAuthTypes
	}

	lastErr := ErrUnauthenticated
	for _, authType := range authTypes {
		chain, ok := e.guards[authType]
		if !ok {
			continue
		}

		principal, err := runChain(ctx, chain, creds)
		if err == nil {
			e.metricInc(MetricGuardAllow)
			return principal, nil
		}
		lastErr = err
	}

	e.metricInc(MetricGuardDeny)
	return nil, lastErr
}

// runChain requires every guard of one scheme to pass; the principal of the
// last check wins.
func runChain(ctx context.Context, chain []guard, creds Credentials) (*Principal, error) {
	var principal *Principal
	for _, g := range chain {
		p, err := g(ctx, creds)
		if err != nil {
			return nil, err
		}
		if p != nil {
			principal = p
		}
	}
	return principal, nil
}

func (e *Engine) noneGuard(context.Context, Credentials) (*Principal, error) {
	return nil, nil
}

// bearerGuard rebuilds the principal from access-token claims alone, no
// store round-trip. Revocation granularity is therefore the access TTL.
func (e *Engine) bearerGuard(_ context.Context, creds Credentials) (*Principal, error) {
	if creds.Bearer == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := e.codec.ParseAccess(creds.Bearer)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return &Principal{
		ID:          claims.Subject,
		Email:       claims.Email,
		Role:        Role(claims.Role),
		Permissions: permission.FromNames(claims.Permissions),
	}, nil
}

func (e *Engine) apiKeyGuard(ctx context.Context, creds Credentials) (*Principal, error) {
	if e.apiKeys == nil || creds.APIKey == "" {
		return nil, ErrUnauthenticated
	}
	principal, err := e.apiKeys.Validate(ctx, creds.APIKey)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if principal == nil {
		return nil, ErrUnauthenticated
	}
	return principal, nil
}
