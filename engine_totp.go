package goIAM

import (
	"context"
	"errors"
)

// ProvisionTFA generates a fresh shared secret and the otpauth:// URI the
// client enrolls with. Nothing is persisted yet; the caller must confirm
// through [Engine.EnableTFA] once the authenticator is set up.
func (e *Engine) ProvisionTFA(ctx context.Context, email string) (TFAProvision, error) {
	if !e.ready() {
		return TFAProvision{}, ErrEngineNotReady
	}
	_ = ctx

	secret, secretBase32, err := e.totp.GenerateSecret()
	if err != nil {
		return TFAProvision{}, err
	}

	return TFAProvision{
		Secret:       secret,
		SecretBase32: secretBase32,
		URI:          e.totp.ProvisionURI(secretBase32, email),
	}, nil
}

// EnableTFA persists the secret and turns the TFA requirement on for the
// principal through the store's narrow update call. Idempotent: re-enabling
// with the same secret is a no-op at the store level.
//
// The secret is stored as provided. Encrypt-at-rest is the store's concern;
// hashing is not an option because the raw secret is needed to verify codes.
func (e *Engine) EnableTFA(ctx context.Context, principalID string, secret []byte) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if len(secret) == 0 {
		return ErrTFANotConfigured
	}

	if _, err := e.principals.FindByID(ctx, principalID); err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return ErrPrincipalNotFound
		}
		return err
	}

	enabled := true
	if err := e.principals.Update(ctx, principalID, PrincipalUpdate{
		TFAEnabled: &enabled,
		TFASecret:  secret,
	}); err != nil {
		return err
	}

	e.emitAudit(ctx, auditEventTFAEnabled, principalID, true, nil, nil)
	return nil
}
