package goIAM

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/goIAM/internal/rate"
)

// SignIn authenticates email+password (plus an OTP code when the principal
// has TFA enabled) and returns a fresh token pair.
//
// All credential failures return [ErrInvalidCredentials] in the same shape:
// unknown email, wrong password, and missing or wrong OTP code are
// indistinguishable to the caller.
func (e *Engine) SignIn(ctx context.Context, email, plaintext, otpCode string) (TokenPair, error) {
	if !e.ready() {
		return TokenPair{}, ErrEngineNotReady
	}
	email = strings.TrimSpace(strings.ToLower(email))
	ip := clientIPFromContext(ctx)

	if e.rateLimiter != nil {
		if err := e.rateLimiter.CheckSignIn(ctx, email, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricSignInRateLimited)
				e.emitAudit(ctx, auditEventSignInRateLimited, "", false, ErrSignInRateLimited, map[string]string{"email": email})
				return TokenPair{}, ErrSignInRateLimited
			}
			return TokenPair{}, err
		}
	}

	principal, err := e.principals.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return TokenPair{}, e.signInFailure(ctx, email, ip, "unknown_email")
		}
		return TokenPair{}, err
	}

	ok, err := e.hasher.Compare(plaintext, principal.PasswordHash)
	if err != nil || !ok {
		return TokenPair{}, e.signInFailure(ctx, email, ip, "password_mismatch")
	}

	if principal.TFAEnabled {
		if otpCode == "" {
			return TokenPair{}, e.signInFailure(ctx, email, ip, "otp_missing")
		}
		counter, ok, err := e.totp.VerifyCode(principal.TFASecret, otpCode, time.Now())
		if err != nil {
			// A corrupt or missing secret keeps the uniform failure shape;
			// the detail goes to the audit side channel only.
			return TokenPair{}, e.signInFailure(ctx, email, ip, "otp_verifier_error")
		}
		if !ok {
			return TokenPair{}, e.signInFailure(ctx, email, ip, "otp_mismatch")
		}
		// Each time-step counter authenticates at most once.
		if counter <= principal.TFALastCounter {
			return TokenPair{}, e.signInFailure(ctx, email, ip, "otp_replayed")
		}
		if err := e.principals.Update(ctx, principal.ID, PrincipalUpdate{TFALastCounter: &counter}); err != nil {
			return TokenPair{}, err
		}
	}

	pair, err := e.generateTokens(ctx, principal)
	if err != nil {
		return TokenPair{}, err
	}

	if e.rateLimiter != nil {
		_ = e.rateLimiter.Reset(ctx, email, ip)
	}
	e.metricInc(MetricSignInSuccess)
	e.emitAudit(ctx, auditEventSignInSuccess, principal.ID, true, nil, nil)
	return pair, nil
}

// signInFailure records a failed attempt and returns the uniform credential
// error. The reason goes only to the audit side channel, never to the caller.
func (e *Engine) signInFailure(ctx context.Context, email, ip, reason string) error {
	if e.rateLimiter != nil {
		if err := e.rateLimiter.RecordFailure(ctx, email, ip); err != nil && errors.Is(err, rate.ErrRateLimited) {
			e.metricInc(MetricSignInRateLimited)
			e.emitAudit(ctx, auditEventSignInRateLimited, "", false, ErrSignInRateLimited, map[string]string{"email": email})
			return ErrSignInRateLimited
		}
	}
	e.metricInc(MetricSignInFailure)
	e.emitAudit(ctx, auditEventSignInFailure, "", false, ErrInvalidCredentials, map[string]string{
		"email":  email,
		"reason": reason,
	})
	return ErrInvalidCredentials
}
