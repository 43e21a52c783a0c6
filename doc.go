// Package goOAuth provides an OAuth2 authorization server core with OpenID
// Connect extensions: signed claim issuance and verification, the
// authorization_code grant protocol, token revocation with blacklisting, and
// a two-tier (local + Redis) cache that keeps token-state checks fast without
// ever being authoritative for a security decision.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// goOAuth is the public surface. It exposes [Engine], [Builder], [Config],
// the repository contracts ([UserStore], [ClientStore], [TokenStore],
// [SettingsStore], [InviteStore]), and value types. Relational persistence is
// never implemented here; it is consumed through [Repository]. HTTP routing
// is likewise external: the middleware subpackage provides guards, and every
// Engine operation is a pure function of (validated input, identity) to
// (result, typed failure) so any router can bind it.
//
// # What this package must NOT do
//
//   - Treat the cache as a source of truth. Every security decision
//     re-verifies structurally (token codec) or via a repository round-trip;
//     only blacklist PRESENCE is authoritative, and only for denial.
//   - Distinguish "bad signature" from "malformed token" to callers.
//   - Expose Redis clients or cache key layout in its public API.
//
// # Performance contract
//
// Validate is the hot path: one local cache lookup (plus one Redis round-trip
// on a local blacklist miss) and a signature check. Authorize and Token are
// allowed repository round-trips; the authorization-code consumption they
// depend on must be atomic in the repository implementation.
package goOAuth
