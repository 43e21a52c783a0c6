package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMemoryTTL is the fixed default lifetime of local-tier entries, and
// the lifetime used when a composite cache backfills its L1 on an L2 hit.
const DefaultMemoryTTL = 5 * time.Minute

// Memory is the local (L1) tier: an in-process map with per-entry expiry and
// a bounded entry count. Memory never performs I/O and never blocks beyond
// its internal mutex, so it is safe on request hot paths.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	defaultTTL time.Duration
	maxEntries int
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryOption customizes a Memory cache.
type MemoryOption func(*Memory)

// WithDefaultTTL overrides the fixed default entry lifetime.
func WithDefaultTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) {
		if ttl > 0 {
			m.defaultTTL = ttl
		}
	}
}

// NewMemory creates a local tier holding at most maxEntries live entries.
// maxEntries <= 0 selects an unbounded cache.
func NewMemory(maxEntries int, opts ...MemoryOption) *Memory {
	m := &Memory{
		entries:    make(map[string]memoryEntry),
		defaultTTL: DefaultMemoryTTL,
		maxEntries: maxEntries,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultTTL returns the tier's fixed default entry lifetime.
func (m *Memory) DefaultTTL() time.Duration {
	return m.defaultTTL
}

// Get implements [Cache].
func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have renewed it.
		if current, still := m.entries[key]; still && time.Now().After(current.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return "", false
	}

	return entry.value, true
}

// Set implements [Cache]. A non-positive ttl selects the default lifetime.
func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.defaultTTL
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		if _, exists := m.entries[key]; !exists {
			m.evictLocked()
		}
	}

	m.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete implements [Cache].
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Exists implements [Cache].
func (m *Memory) Exists(ctx context.Context, key string) bool {
	_, ok := m.Get(ctx, key)
	return ok
}

// Clear implements [Cache].
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included until
// their next touch or eviction sweep.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// evictLocked frees capacity for one insert: expired entries first, then an
// arbitrary live entry. Map iteration order makes the fallback victim
// effectively random, which is acceptable for a hint cache.
func (m *Memory) evictLocked() {
	now := time.Now()
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
	if m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		for key := range m.entries {
			delete(m.entries, key)
			return
		}
	}
}
