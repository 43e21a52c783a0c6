package goOAuth

import (
	"context"
	"strconv"
	"time"

	"github.com/MrEthical07/goOAuth/cache"
	"github.com/MrEthical07/goOAuth/jwt"
	"github.com/MrEthical07/goOAuth/password"
)

// Cache key prefixes shared by the engine's hint entries. The blacklist
// prefix is the one authoritative-for-denial namespace.
const (
	cacheKeyToken        = "token:"
	cacheKeyAuthCode     = "authcode:"
	cacheKeyBlacklist    = "blacklist:"
	cacheKeyAuthPolicy   = "config:auth_policy"
	cacheKeyRegistration = "config:registration"
)

// Engine is the authorization engine. Build one through [New]; the zero
// value is not usable.
type Engine struct {
	config       Config
	repo         Repository
	cache        *cache.Composite
	jwtManager   *jwt.Manager
	passwordHash *password.Argon2
	audit        *auditDispatcher
	metrics      *Metrics
}

// Close flushes the audit dispatcher. The engine must not be used after
// Close returns.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports audit events lost to a full dispatcher buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	e.audit.Emit(ctx, event)
}

// cacheGet reads a hint entry and records the hit tier.
func (e *Engine) cacheGet(ctx context.Context, key string) (string, bool) {
	if local, ok := e.cache.Local().Get(ctx, key); ok {
		e.metricInc(MetricCacheL1Hit)
		return local, true
	}
	value, ok := e.cache.Remote().Get(ctx, key)
	if !ok {
		e.metricInc(MetricCacheMiss)
		return "", false
	}
	e.metricInc(MetricCacheL2Hit)
	_ = e.cache.Local().Set(ctx, key, value, 0)
	return value, true
}

func formatUserID(id int64) string {
	return strconv.FormatInt(id, 10)
}
