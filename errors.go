package goIAM

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineNotReady is returned when an Engine method is invoked before
	// Builder.Build completed or on a nil receiver.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrDuplicateIdentity is returned by SignUp and SocialSignIn when the
	// email or external identity is already registered.
	ErrDuplicateIdentity = errors.New("identity already exists")
	// ErrInvalidCredentials is the uniform sign-in failure. It is returned for
	// an unknown email, a wrong password, and a missing or wrong OTP code so
	// that callers cannot tell which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid covers malformed, expired, tampered, or wrong-audience
	// tokens. The guard path maps it to ErrUnauthenticated before it reaches
	// a caller.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrRefreshReuse signals that a refresh token was presented after it had
	// been superseded by a rotation. It is internal: flows surface
	// ErrUnauthenticated instead, so an attacker cannot probe whether a stolen
	// token was already spent.
	ErrRefreshReuse = errors.New("refresh token reuse detected")
	// ErrUnauthenticated is the generic user-visible failure for the guard and
	// refresh paths.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrPermissionDenied is returned when the principal lacks one or more of
	// a route's required permissions.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrRoleDenied is returned when a route requires a role the principal
	// does not hold.
	ErrRoleDenied = errors.New("role denied")
	// ErrSignInRateLimited is returned when the optional sign-in rate limiter
	// rejects an attempt.
	ErrSignInRateLimited = errors.New("sign-in rate limited")
	// ErrTFANotConfigured is returned by EnableTFA when no secret was
	// provisioned for the principal.
	ErrTFANotConfigured = errors.New("tfa not configured")
	// ErrStoreUnavailable wraps backend failures from the refresh session
	// store.
	ErrStoreUnavailable = errors.New("refresh session store unavailable")

	// ErrPrincipalNotFound must be returned by PrincipalStore lookups when no
	// principal matches.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrPrincipalExists must be returned by PrincipalStore.Create when the
	// email or external ID collides with an existing principal.
	ErrPrincipalExists = errors.New("principal already exists")
)

// PolicyDeniedError reports which policy vetoed a request. Policies are
// authorization, not authentication, so the name carries no secrecy
// requirement and is safe to surface.
type PolicyDeniedError struct {
	Policy string
}

func (e *PolicyDeniedError) Error() string {
	return fmt.Sprintf("policy %q denied request", e.Policy)
}

// Is makes errors.Is(err, ErrPolicyDenied) match any PolicyDeniedError.
func (e *PolicyDeniedError) Is(target error) bool {
	return target == ErrPolicyDenied
}

// ErrPolicyDenied is the errors.Is target for any PolicyDeniedError.
var ErrPolicyDenied = errors.New("policy denied")
