package goIAM

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goIAM/refresh"
)

// storeErr maps refresh-store transport failures onto the engine's error
// surface; other errors pass through unchanged.
func storeErr(err error) error {
	if errors.Is(err, refresh.ErrBackendUnavailable) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

// Refresh rotates a refresh token: the presented token's rotation identifier
// is consumed atomically and a new pair is issued with a fresh identifier.
//
// Every failure (malformed or expired token, unknown principal, detected
// reuse) surfaces as [ErrUnauthenticated]. Distinguishing reuse from plain
// invalidity would let an attacker probe whether a stolen token had already
// been spent, so the detail goes to the audit side channel only.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if !e.ready() {
		return TokenPair{}, ErrEngineNotReady
	}

	claims, err := e.codec.ParseRefresh(refreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshFailure, "", false, ErrTokenInvalid, nil)
		return TokenPair{}, ErrUnauthenticated
	}

	principal, err := e.principals.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			e.metricInc(MetricRefreshFailure)
			e.emitAudit(ctx, auditEventRefreshFailure, claims.Subject, false, ErrPrincipalNotFound, nil)
			return TokenPair{}, ErrUnauthenticated
		}
		return TokenPair{}, err
	}

	if err := e.refreshStore.ValidateAndInvalidate(ctx, principal.ID, claims.RefreshTokenID); err != nil {
		if errors.Is(err, refresh.ErrReuseDetected) {
			// Possible theft. The slot is already gone, so every outstanding
			// token for this principal is now dead; raise the alarm out of
			// band and answer with the generic failure.
			e.metricInc(MetricRefreshReuseDetected)
			e.emitAudit(ctx, auditEventRefreshReuse, principal.ID, false, ErrRefreshReuse, map[string]string{
				"refresh_token_id": claims.RefreshTokenID,
			})
			return TokenPair{}, ErrUnauthenticated
		}
		return TokenPair{}, storeErr(err)
	}

	// Rotation: a fresh identifier is generated and inserted, superseding the
	// one just consumed.
	pair, err := e.generateTokens(ctx, principal)
	if err != nil {
		return TokenPair{}, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, principal.ID, true, nil, nil)
	return pair, nil
}

// Logout invalidates the principal's refresh session unconditionally.
// Outstanding access tokens remain valid until they expire; only the refresh
// path is cut. Idempotent.
func (e *Engine) Logout(ctx context.Context, principalID string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if err := e.refreshStore.Invalidate(ctx, principalID); err != nil {
		return storeErr(err)
	}
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, principalID, true, nil, nil)
	return nil
}
