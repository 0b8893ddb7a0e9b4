package goIAM

import (
	"context"
	"errors"

	"github.com/MrEthical07/goIAM/permission"
)

// SocialSignIn verifies an external identity token, finds or creates the
// matching principal, and issues a token pair. First-time social principals
// are created with the configured minimal default permission set and no
// password.
//
// Duplicate-key failures from the principal store map to
// [ErrDuplicateIdentity]; every other failure, including provider rejection,
// maps to [ErrUnauthenticated].
func (e *Engine) SocialSignIn(ctx context.Context, externalToken string) (TokenPair, error) {
	if !e.ready() {
		return TokenPair{}, ErrEngineNotReady
	}
	if e.identity == nil {
		return TokenPair{}, ErrUnauthenticated
	}

	identity, err := e.identity.Verify(ctx, externalToken)
	if err != nil {
		e.emitAudit(ctx, auditEventSocialSignInFailure, "", false, err, nil)
		return TokenPair{}, ErrUnauthenticated
	}

	principal, err := e.principals.FindByExternalID(ctx, identity.ExternalID)
	switch {
	case err == nil:
	case errors.Is(err, ErrPrincipalNotFound):
		principal, err = e.principals.Create(ctx, CreatePrincipalInput{
			Email:       identity.Email,
			ExternalID:  identity.ExternalID,
			Role:        RoleRegular,
			Permissions: permission.NewSet(e.config.DefaultSocialPermissions...),
		})
		if err != nil {
			if errors.Is(err, ErrPrincipalExists) {
				e.emitAudit(ctx, auditEventSocialSignInFailure, "", false, ErrDuplicateIdentity, map[string]string{"email": identity.Email})
				return TokenPair{}, ErrDuplicateIdentity
			}
			e.emitAudit(ctx, auditEventSocialSignInFailure, "", false, err, nil)
			return TokenPair{}, ErrUnauthenticated
		}
	default:
		e.emitAudit(ctx, auditEventSocialSignInFailure, "", false, err, nil)
		return TokenPair{}, ErrUnauthenticated
	}

	pair, err := e.generateTokens(ctx, principal)
	if err != nil {
		return TokenPair{}, err
	}

	e.metricInc(MetricSocialSignIn)
	e.emitAudit(ctx, auditEventSocialSignIn, principal.ID, true, nil, nil)
	return pair, nil
}
