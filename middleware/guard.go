package middleware

import (
	"errors"
	"net"
	"net/http"
	"strings"

	goIAM "github.com/MrEthical07/goIAM"
)

// APIKeyHeader is the request header carrying the API key.
const APIKeyHeader = "X-API-Key"

// Guard wraps a handler with route's authentication and authorization
// requirements. The authenticated principal, if any, is attached to the
// request context and readable through [goIAM.PrincipalFromContext].
func Guard(engine *goIAM.Engine, route goIAM.RouteDescriptor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ip := clientIP(r)
			ctx := goIAM.WithClientIP(r.Context(), ip)

			creds := goIAM.Credentials{
				APIKey: r.Header.Get(APIKeyHeader),
			}
			if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
				creds.Bearer = token
			}

			principal, err := engine.Authenticate(ctx, route, creds)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			req := goIAM.Request{
				Method:   r.Method,
				Path:     r.URL.Path,
				ClientIP: ip,
			}
			if err := engine.Authorize(ctx, principal, route, req); err != nil {
				if errors.Is(err, goIAM.ErrPermissionDenied) ||
					errors.Is(err, goIAM.ErrRoleDenied) ||
					errors.Is(err, goIAM.ErrPolicyDenied) {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if principal != nil {
				ctx = goIAM.WithPrincipal(ctx, principal)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}
	return token, true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
