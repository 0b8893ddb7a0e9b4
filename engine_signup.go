package goIAM

import (
	"context"
	"errors"
	"strings"
)

// SignUp registers a new principal with the given email and password. It
// returns [ErrDuplicateIdentity] when the email is already taken and issues
// no tokens; the caller must sign in afterwards.
func (e *Engine) SignUp(ctx context.Context, email, plaintext string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || plaintext == "" {
		return ErrInvalidCredentials
	}

	exists, err := e.principals.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		e.metricInc(MetricSignUpDuplicate)
		e.emitAudit(ctx, auditEventSignUpDuplicate, "", false, ErrDuplicateIdentity, map[string]string{"email": email})
		return ErrDuplicateIdentity
	}

	digest, err := e.hasher.Hash(plaintext)
	if err != nil {
		return err
	}

	created, err := e.principals.Create(ctx, CreatePrincipalInput{
		Email:        email,
		PasswordHash: digest,
		Role:         RoleRegular,
	})
	if err != nil {
		// The store enforces uniqueness; a concurrent sign-up can slip past
		// the existence probe and surface here instead.
		if errors.Is(err, ErrPrincipalExists) {
			e.metricInc(MetricSignUpDuplicate)
			return ErrDuplicateIdentity
		}
		return err
	}

	e.metricInc(MetricSignUpSuccess)
	e.emitAudit(ctx, auditEventSignUp, created.ID, true, nil, nil)
	return nil
}
