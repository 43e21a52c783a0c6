// Package cache provides the two-tier token-state cache: a Cache capability
// interface with three implementations: an in-process [Memory] tier, a
// Redis-backed [Redis] tier, and a [Composite] that layers any two Caches
// with read-through/write-through semantics. Composite itself satisfies
// Cache, so tiers compose to arbitrary depth.
//
// The cache is a hint, never an authority. Remote-tier read failures degrade
// to misses; callers fall back to authoritative checks. The one exception is
// the blacklist convention, where only PRESENCE denies access, so a lost
// entry can never grant anything.
package cache
