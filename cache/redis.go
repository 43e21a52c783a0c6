package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the remote (L2) tier backed by a go-redis UniversalClient. Every
// key is stored under a namespace prefix so Clear can purge this cache's
// keys without touching anything else in the database.
//
// Reads are hints: any transport or server error degrades to a miss so the
// caller falls through to its authoritative store. Writes report failure
// wrapped in [ErrUnavailable] so callers can decide whether a lost
// invalidation is fatal for their operation.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis wraps client with the given namespace prefix. An empty prefix
// is allowed but strongly discouraged outside tests.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Ping verifies the server is reachable. The builder calls this once at
// startup to decide whether the remote tier participates.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	return nil
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

// Get implements [Cache]. Errors degrade to a miss.
func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

// Set implements [Cache]. A non-positive ttl stores the entry without
// expiry; revocation entries rely on this to outlive the tokens they deny.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %q: %v", ErrUnavailable, key, err)
	}
	return nil
}

// Delete implements [Cache].
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: delete %q: %v", ErrUnavailable, key, err)
	}
	return nil
}

// Exists implements [Cache]. Errors degrade to false.
func (r *Redis) Exists(ctx context.Context, key string) bool {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	return err == nil && n > 0
}

// Clear implements [Cache]. Only keys under this cache's prefix are
// removed; Clear never issues FLUSHDB.
func (r *Redis) Clear(ctx context.Context) error {
	var cursor uint64
	pattern := r.prefix + "*"
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return fmt.Errorf("%w: scan: %v", ErrUnavailable, err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: clear: %v", ErrUnavailable, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
