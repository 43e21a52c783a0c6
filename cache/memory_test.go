package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()

	if err := m.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	value, ok := m.Get(ctx, "k")
	if !ok || value != "v" {
		t.Fatalf("Get = (%q, %v), want (%q, true)", value, ok, "v")
	}
	if !m.Exists(ctx, "k") {
		t.Fatal("Exists = false, want true")
	}
}

func TestMemoryMiss(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()

	if _, ok := m.Get(ctx, "absent"); ok {
		t.Fatal("expected miss for absent key")
	}
	if m.Exists(ctx, "absent") {
		t.Fatal("Exists = true for absent key")
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()

	if err := m.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(25 * time.Millisecond)

	if _, ok := m.Get(ctx, "k"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if m.Len() != 0 {
		t.Fatalf("Len = %d after expired read, want 0", m.Len())
	}
}

func TestMemoryDefaultTTL(t *testing.T) {
	m := NewMemory(0, WithDefaultTTL(10*time.Millisecond))
	ctx := context.Background()

	if err := m.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, ok := m.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before default TTL elapsed")
	}

	time.Sleep(25 * time.Millisecond)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Fatal("expected miss after default TTL elapsed")
	}
}

func TestMemoryDeleteAndClear(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()

	_ = m.Set(ctx, "a", "1", time.Minute)
	_ = m.Set(ctx, "b", "2", time.Minute)

	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, ok := m.Get(ctx, "a"); ok {
		t.Fatal("expected deleted key to miss")
	}

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("Len = %d after Clear, want 0", m.Len())
	}
}

func TestMemoryEviction(t *testing.T) {
	m := NewMemory(4)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_ = m.Set(ctx, fmt.Sprintf("key-%d", i), "v", time.Minute)
	}
	if m.Len() != 4 {
		t.Fatalf("Len = %d, want 4", m.Len())
	}

	_ = m.Set(ctx, "key-4", "v", time.Minute)
	if m.Len() != 4 {
		t.Fatalf("Len = %d after capped insert, want 4", m.Len())
	}
	if _, ok := m.Get(ctx, "key-4"); !ok {
		t.Fatal("expected the newest entry to survive eviction")
	}
}

func TestMemoryEvictionPrefersExpired(t *testing.T) {
	m := NewMemory(2)
	ctx := context.Background()

	_ = m.Set(ctx, "stale", "v", 5*time.Millisecond)
	_ = m.Set(ctx, "live", "v", time.Minute)
	time.Sleep(15 * time.Millisecond)

	_ = m.Set(ctx, "fresh", "v", time.Minute)

	if _, ok := m.Get(ctx, "live"); !ok {
		t.Fatal("expected the live entry to survive; only the expired one should be evicted")
	}
	if _, ok := m.Get(ctx, "fresh"); !ok {
		t.Fatal("expected the fresh entry to be stored")
	}
}

func TestMemoryOverwriteExistingAtCapacity(t *testing.T) {
	m := NewMemory(1)
	ctx := context.Background()

	_ = m.Set(ctx, "k", "v1", time.Minute)
	_ = m.Set(ctx, "k", "v2", time.Minute)

	value, ok := m.Get(ctx, "k")
	if !ok || value != "v2" {
		t.Fatalf("Get = (%q, %v), want (%q, true)", value, ok, "v2")
	}
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
}
