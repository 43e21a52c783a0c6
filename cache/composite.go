package cache

import (
	"context"
	"time"
)

// Composite layers a fast local tier (L1) over an authoritative remote tier
// (L2). Reads go L1 first and backfill L1 on an L2 hit; writes and deletes
// go through to both tiers. Two composites sharing the same L2 therefore
// converge: a value set through one is readable through a fresh composite
// built over the same remote.
type Composite struct {
	local  Cache
	remote Cache
}

// NewComposite builds the two-tier cache. Both tiers are required; callers
// that lost their remote tier at startup pass a second Memory instance so
// the composite shape stays uniform.
func NewComposite(local, remote Cache) *Composite {
	return &Composite{local: local, remote: remote}
}

// Get implements [Cache]. On an L2 hit the value is backfilled into L1 with
// the local tier's default lifetime, never the remote entry's remaining TTL.
func (c *Composite) Get(ctx context.Context, key string) (string, bool) {
	if value, ok := c.local.Get(ctx, key); ok {
		return value, true
	}
	value, ok := c.remote.Get(ctx, key)
	if !ok {
		return "", false
	}
	// Backfill failure only costs the next read a remote round trip.
	_ = c.local.Set(ctx, key, value, 0)
	return value, true
}

// Set implements [Cache]. The local tier is written even when the remote
// write fails, and the remote error is returned.
func (c *Composite) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	localErr := c.local.Set(ctx, key, value, ttl)
	if err := c.remote.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	return localErr
}

// Delete implements [Cache]. Both tiers are purged; the first error wins
// but does not stop the other tier's delete.
func (c *Composite) Delete(ctx context.Context, key string) error {
	localErr := c.local.Delete(ctx, key)
	if err := c.remote.Delete(ctx, key); err != nil {
		return err
	}
	return localErr
}

// Exists implements [Cache]. L1 short-circuits; L2 is only consulted on an
// L1 miss.
func (c *Composite) Exists(ctx context.Context, key string) bool {
	if c.local.Exists(ctx, key) {
		return true
	}
	return c.remote.Exists(ctx, key)
}

// Clear implements [Cache].
func (c *Composite) Clear(ctx context.Context) error {
	localErr := c.local.Clear(ctx)
	if err := c.remote.Clear(ctx); err != nil {
		return err
	}
	return localErr
}

// Local exposes the L1 tier for metrics instrumentation.
func (c *Composite) Local() Cache { return c.local }

// Remote exposes the L2 tier for metrics instrumentation.
func (c *Composite) Remote() Cache { return c.remote }
