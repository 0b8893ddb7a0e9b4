// Package middleware adapts the goIAM guard core to net/http.
//
// Each route registers with its [goIAM.RouteDescriptor]; the middleware
// extracts the bearer token and API key from the request, runs
// authentication and authorization, and attaches the principal to the
// request context for handlers.
//
// # What this package must NOT do
//
//   - Implement any auth decision itself; it only extracts credentials and
//     maps engine errors to status codes.
//   - Leak failure detail: authentication failures are a bare 401,
//     authorization failures a bare 403.
package middleware
