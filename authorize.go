package goIAM

import (
	"context"

	"github.com/MrEthical07/goIAM/permission"
)

// Authorize evaluates route's declared requirements against the
// authenticated principal: role first, then permissions (AND across the
// requirement set), then policies (AND in declaration order). principal may
// be nil on open routes; a nil principal passes only requirements that are
// themselves empty.
//
// Authorization failures are surfaced distinctly ([ErrRoleDenied],
// [ErrPermissionDenied], [*PolicyDeniedError]); unlike authentication
// failures, they carry no secrecy requirement.
func (e *Engine) Authorize(ctx context.Context, principal *Principal, route RouteDescriptor, req Request) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if route.Role != "" {
		if principal == nil || principal.Role != route.Role {
			return ErrRoleDenied
		}
	}

	if len(route.Permissions) > 0 {
		var granted permission.Set
		if principal != nil {
			granted = principal.Permissions
		}
		if !permission.Satisfied(granted, route.Permissions) {
			e.metricInc(MetricPermissionDenied)
			return ErrPermissionDenied
		}
	}

	for _, policy := range route.Policies {
		allowed, err := policy.Evaluate(ctx, principal, req)
		if err != nil {
			// Backend failure fails closed, attributed to the policy.
			e.metricInc(MetricPolicyDenied)
			return &PolicyDeniedError{Policy: policy.Name()}
		}
		if !allowed {
			e.metricInc(MetricPolicyDenied)
			return &PolicyDeniedError{Policy: policy.Name()}
		}
	}

	return nil
}
