package goOAuth

import (
	"errors"
	"time"
)

// Config carries every tunable of the engine. Configure once, treat as
// immutable after Build.
type Config struct {
	JWT      JWTConfig
	Password PasswordConfig
	Cache    CacheConfig
	Policy   PolicyConfig
	OIDC     OIDCConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig holds the shared HS256 signing secret. Access, refresh, code
// and ID token lifetimes live in [PolicyConfig] because they are
// runtime-tunable through the settings store.
type JWTConfig struct {
	Secret []byte
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds the Argon2id parameters. Memory is in KB.
type PasswordConfig struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32

	// MinLength applies to registration and is not part of the hasher.
	MinLength int
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig shapes the two-tier cache. When RequireRemote is false and
// Redis is unreachable at Build, a second memory tier silently takes the
// remote role for the life of the process.
type CacheConfig struct {
	MemoryMaxEntries int
	MemoryDefaultTTL time.Duration
	RedisPrefix      string
	RequireRemote    bool
	PingTimeout      time.Duration
}

/*
====================================
POLICY CONFIG
====================================
*/

// PolicyConfig holds the startup lifetime policy. The settings store can
// override these at runtime through [Engine.UpdateAuthPolicy]; these
// values apply until a stored policy exists. ID tokens share the access
// token lifetime.
type PolicyConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AuthCodeTTL     time.Duration

	// PolicyCacheTTL bounds how stale a cached settings-backed policy
	// may be.
	PolicyCacheTTL time.Duration

	Registration RegistrationPolicy
}

/*
====================================
OIDC CONFIG
====================================
*/

// OIDCConfig identifies this provider in ID tokens and discovery metadata.
type OIDCConfig struct {
	Issuer string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the defaults [New] starts from. The JWT secret is
// intentionally empty and must be supplied before Build.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		JWT: JWTConfig{},
		Password: PasswordConfig{
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
			MinLength:   10,
		},
		Cache: CacheConfig{
			MemoryMaxEntries: 10000,
			MemoryDefaultTTL: 5 * time.Minute,
			RedisPrefix:      "gooauth:",
			RequireRemote:    false,
			PingTimeout:      3 * time.Second,
		},
		Policy: PolicyConfig{
			AccessTokenTTL:  1 * time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
			AuthCodeTTL:     10 * time.Minute,
			PolicyCacheTTL:  5 * time.Minute,
			Registration: RegistrationPolicy{
				Enabled:       true,
				RequireInvite: false,
			},
		},
		OIDC: OIDCConfig{
			Issuer: "http://localhost:8080",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	// JWT
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT Secret must be at least 32 bytes")
	}

	// Password
	if c.Password.Memory < 8*1024 {
		return errors.New("Password Memory must be >= 8192 KB")
	}
	if c.Password.Time < 1 {
		return errors.New("Password Time must be >= 1")
	}
	if c.Password.Parallelism < 1 {
		return errors.New("Password Parallelism must be >= 1")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("Password SaltLength must be >= 16")
	}
	if c.Password.KeyLength < 16 {
		return errors.New("Password KeyLength must be >= 16")
	}
	if c.Password.MinLength < 1 {
		return errors.New("Password MinLength must be >= 1")
	}

	// Cache
	if c.Cache.MemoryMaxEntries <= 0 {
		return errors.New("Cache MemoryMaxEntries must be > 0")
	}
	if c.Cache.MemoryDefaultTTL <= 0 {
		return errors.New("Cache MemoryDefaultTTL must be > 0")
	}
	if c.Cache.PingTimeout <= 0 {
		return errors.New("Cache PingTimeout must be > 0")
	}

	// Policy
	if c.Policy.AccessTokenTTL <= 0 {
		return errors.New("Policy AccessTokenTTL must be > 0")
	}
	if c.Policy.RefreshTokenTTL <= 0 {
		return errors.New("Policy RefreshTokenTTL must be > 0")
	}
	if c.Policy.AuthCodeTTL <= 0 {
		return errors.New("Policy AuthCodeTTL must be > 0")
	}
	if c.Policy.PolicyCacheTTL <= 0 {
		return errors.New("Policy PolicyCacheTTL must be > 0")
	}

	// OIDC
	if c.OIDC.Issuer == "" {
		return errors.New("OIDC Issuer must be set")
	}

	return nil
}
