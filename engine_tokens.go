package goIAM

import (
	"context"

	"github.com/google/uuid"
)

// generateTokens mints a fresh token pair for principal and commits the new
// refresh session. The two signings are independent and run concurrently; the
// store insert happens only after both succeed and is the single commit
// point. If the insert fails the sign-in has not happened, whatever tokens
// were signed.
//
// Cancellation after the insert does not roll the session back: the store,
// not the response, is the authority on session state.
func (e *Engine) generateTokens(ctx context.Context, principal *Principal) (TokenPair, error) {
	refreshTokenID := uuid.NewString()

	type signed struct {
		token string
		err   error
	}

	accessCh := make(chan signed, 1)
	refreshCh := make(chan signed, 1)

	go func() {
		token, err := e.codec.CreateAccess(
			principal.ID,
			principal.Email,
			string(principal.Role),
			principal.Permissions.Names(),
		)
		accessCh <- signed{token: token, err: err}
	}()
	go func() {
		token, err := e.codec.CreateRefresh(principal.ID, refreshTokenID)
		refreshCh <- signed{token: token, err: err}
	}()

	access := <-accessCh
	refreshed := <-refreshCh
	if access.err != nil {
		return TokenPair{}, access.err
	}
	if refreshed.err != nil {
		return TokenPair{}, refreshed.err
	}
	if err := ctx.Err(); err != nil {
		return TokenPair{}, err
	}

	if err := e.refreshStore.Insert(ctx, principal.ID, refreshTokenID); err != nil {
		return TokenPair{}, storeErr(err)
	}

	return TokenPair{
		AccessToken:  access.token,
		RefreshToken: refreshed.token,
	}, nil
}
