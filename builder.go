package goOAuth

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goOAuth/cache"
	"github.com/MrEthical07/goOAuth/jwt"
	"github.com/MrEthical07/goOAuth/password"
)

// Builder assembles an [Engine]. A builder is single-use.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	repo      Repository
	auditSink AuditSink

	built bool
}

func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the default configuration wholesale.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSecret sets the HS256 signing secret without replacing the rest of
// the configuration.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.JWT.Secret = cloneBytes(secret)
	return b
}

// WithRedis supplies the remote cache tier. Without it the engine runs on
// memory tiers only.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithRepository supplies the persistence contract. Required.
func (b *Builder) WithRepository(repo Repository) *Builder {
	b.repo = repo
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, probes the remote cache tier, and
// assembles the engine. When Redis is unreachable and RequireRemote is
// false, a second memory tier substitutes for the remote role for the
// life of the process; the engine never retries the connection.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	if b.repo == nil {
		return nil, fmt.Errorf("%w: repository required", ErrConfig)
	}

	local := cache.NewMemory(cfg.Cache.MemoryMaxEntries,
		cache.WithDefaultTTL(cfg.Cache.MemoryDefaultTTL))

	remote, err := b.buildRemoteTier(cfg)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config: cfg,
		repo:   b.repo,
		cache:  cache.NewComposite(local, remote),
	}

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	ph, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}
	engine.passwordHash = ph

	jm, err := jwt.NewManager(jwt.Config{
		Secret: cloneBytes(cfg.JWT.Secret),
	})
	if err != nil {
		return nil, err
	}
	engine.jwtManager = jm

	b.built = true

	return engine, nil
}

// buildRemoteTier probes Redis once. There is no reconnect loop: the
// decision made here holds until the process restarts.
func (b *Builder) buildRemoteTier(cfg Config) (cache.Cache, error) {
	if b.redis == nil {
		if cfg.Cache.RequireRemote {
			return nil, fmt.Errorf("%w: RequireRemote set but no redis client", ErrConfig)
		}
		log.Print("goOAuth: no redis client, using in-process cache for both tiers")
		return cache.NewMemory(cfg.Cache.MemoryMaxEntries,
			cache.WithDefaultTTL(cfg.Cache.MemoryDefaultTTL)), nil
	}

	remote := cache.NewRedis(b.redis, cfg.Cache.RedisPrefix)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Cache.PingTimeout)
	defer cancel()

	if err := remote.Ping(ctx); err != nil {
		if cfg.Cache.RequireRemote {
			return nil, fmt.Errorf("%w: redis unreachable: %v", ErrConfig, err)
		}
		log.Printf("goOAuth: redis unreachable, using in-process cache for both tiers: %v", err)
		return cache.NewMemory(cfg.Cache.MemoryMaxEntries,
			cache.WithDefaultTTL(cfg.Cache.MemoryDefaultTTL)), nil
	}

	return remote, nil
}
