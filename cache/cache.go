package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps remote tier failures on writes. Reads never surface
// it; a failed read is reported as a miss.
var ErrUnavailable = errors.New("cache unavailable")

// Cache is the capability every tier implements.
//
// TTL semantics: a zero or negative ttl on Set selects the tier's default
// lifetime: a fixed default for local tiers, indefinite for remote tiers.
type Cache interface {
	// Get returns the value for key, or ok=false when absent. Remote
	// failures are reported as absence.
	Get(ctx context.Context, key string) (value string, ok bool)

	// Set stores key=value with the given ttl in every tier, synchronously.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key from every tier. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key is present in any tier.
	Exists(ctx context.Context, key string) bool

	// Clear removes every entry the tier owns. For remote tiers this is
	// destructive and scoped to the tier's key namespace only.
	Clear(ctx context.Context) error
}
