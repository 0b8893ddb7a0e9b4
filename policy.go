package goIAM

import (
	"context"
	"strings"
)

// Request is the request context handed to policies. It describes the
// operation, not the credentials; authentication has already happened by the
// time policies run.
type Request struct {
	Method   string
	Path     string
	ClientIP string
}

// Policy is a named authorization predicate beyond role and permission
// checks. Implementations decide on (principal, request); a backend error
// fails closed. The name is used in [PolicyDeniedError] diagnostics.
//
// A route's policies combine with AND semantics in declaration order; the
// first denial short-circuits.
type Policy interface {
	Name() string
	Evaluate(ctx context.Context, principal *Principal, req Request) (bool, error)
}

// PolicyFunc adapts a function to the [Policy] interface.
type PolicyFunc struct {
	PolicyName string
	Fn         func(ctx context.Context, principal *Principal, req Request) (bool, error)
}

// Name implements [Policy].
func (p PolicyFunc) Name() string { return p.PolicyName }

// Evaluate implements [Policy].
func (p PolicyFunc) Evaluate(ctx context.Context, principal *Principal, req Request) (bool, error) {
	if p.Fn == nil {
		return false, nil
	}
	return p.Fn(ctx, principal, req)
}

// RequireTFA allows only principals that completed two-factor enrollment.
// Note the bearer guard rebuilds principals from claims, which do not carry
// the TFA flag; this policy is meant for flows that loaded the principal
// from the store.
type RequireTFA struct{}

// Name implements [Policy].
func (RequireTFA) Name() string { return "require-tfa" }

// Evaluate implements [Policy].
func (RequireTFA) Evaluate(_ context.Context, principal *Principal, _ Request) (bool, error) {
	return principal != nil && principal.TFAEnabled, nil
}

// EmailDomain allows only principals whose email belongs to the given
// domain, e.g. EmailDomain("example.com").
type EmailDomain string

// Name implements [Policy].
func (d EmailDomain) Name() string { return "email-domain:" + string(d) }

// Evaluate implements [Policy].
func (d EmailDomain) Evaluate(_ context.Context, principal *Principal, _ Request) (bool, error) {
	if principal == nil {
		return false, nil
	}
	_, domain, ok := strings.Cut(principal.Email, "@")
	return ok && strings.EqualFold(domain, string(d)), nil
}
