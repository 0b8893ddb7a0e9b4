package goIAM

import "context"

type principalContextKey struct{}
type clientIPContextKey struct{}

// WithPrincipal attaches an authenticated principal to ctx. The middleware
// calls it after a guard succeeds; handlers read it back through
// [PrincipalFromContext].
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext returns the principal attached by [WithPrincipal].
// The second result is false on open routes and unauthenticated requests.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}

// WithClientIP attaches the caller's IP address to ctx. The engine uses it
// for sign-in rate limiting and audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
