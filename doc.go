// Package goIAM provides an embeddable authentication and authorization guard
// core: JWT access tokens, rotating single-use refresh tokens with theft
// detection, multi-scheme guard composition (bearer / API key / open routes),
// and declarative permission and policy evaluation per route.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// goIAM is the public surface. It exposes [Engine], [Builder], [Config], the
// route metadata types ([RouteDescriptor], [AuthType], [Policy]), and the
// collaborator interfaces ([PrincipalStore], [Hasher], [IdentityProvider],
// [APIKeyValidator]). Token signing lives in the jwt sub-package, refresh
// session state in refresh, password hashing in password, permission sets in
// permission, and HTTP glue in middleware.
//
// # What this package must NOT do
//
//   - Own principal persistence. The [PrincipalStore] is injected; the engine
//     only reads principals and writes TFA state through a narrow update call.
//   - Expose Redis clients or internal store layouts in its public API.
//   - Distinguish authentication failure causes to callers. Token-invalid and
//     refresh-reuse conditions both surface as [ErrUnauthenticated].
//
// # Concurrency contract
//
// The refresh session store is the only engine-owned mutable shared state.
// Rotation uses an atomic per-principal compare-and-delete, so two concurrent
// refresh attempts with the same stale token never both succeed.
package goIAM
