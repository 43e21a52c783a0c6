// Package middleware exposes net/http middleware adapters built on top of
// goOAuth.Engine validation.
//
// # Guards
//
//   - [Guard] — bearer token validation for any protected route.
//   - [AdminGuard] — bearer token validation plus the admin role check.
//
// Each guard reads the Authorization header, calls Engine.Validate, and
// injects validated claims into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// the engine.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Touch the cache or the repository (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from the engine.
package middleware
