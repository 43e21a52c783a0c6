package goOAuth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestBuildRequiresRepository(t *testing.T) {
	_, err := New().WithSecret(testSecret).Build()
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("error = %v, want ErrConfig", err)
	}
}

func TestBuildRejectsShortSecret(t *testing.T) {
	_, err := New().
		WithSecret([]byte("short")).
		WithRepository(newFakeRepo()).
		Build()
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("error = %v, want ErrConfig", err)
	}
}

func TestBuildWithoutRedisFallsBackToMemory(t *testing.T) {
	repo := newFakeRepo()
	engine, err := New().
		WithConfig(testConfig()).
		WithRepository(repo).
		Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(engine.Close)

	// The engine is fully functional on memory tiers.
	ctx := context.Background()
	repo.seedLoginUser(t, engine, "alice", "correct-horse-battery", "user")
	result, err := engine.Login(ctx, "alice", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if _, err := engine.Validate(ctx, result.AccessToken); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestBuildRequireRemoteWithoutRedis(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.RequireRemote = true

	_, err := New().
		WithConfig(cfg).
		WithRepository(newFakeRepo()).
		Build()
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("error = %v, want ErrConfig", err)
	}
}

func TestBuildRequireRemoteUnreachableRedis(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	cfg := testConfig()
	cfg.Cache.RequireRemote = true

	_, err := New().
		WithConfig(cfg).
		WithRedis(client).
		WithRepository(newFakeRepo()).
		Build()
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("error = %v, want ErrConfig", err)
	}
}

func TestBuildUnreachableRedisDegrades(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	engine, err := New().
		WithConfig(testConfig()).
		WithRedis(client).
		WithRepository(newFakeRepo()).
		Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(engine.Close)

	if err := engine.cache.Set(context.Background(), "k", "v", 0); err != nil {
		t.Fatalf("degraded cache Set error: %v", err)
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := New().
		WithConfig(testConfig()).
		WithRepository(newFakeRepo())

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestWithConfigCopiesSecret(t *testing.T) {
	secret := make([]byte, len(testSecret))
	copy(secret, testSecret)

	cfg := testConfig()
	cfg.JWT.Secret = secret

	b := New().WithConfig(cfg).WithRepository(newFakeRepo())

	// Mutating the caller's slice after WithConfig must not affect the build.
	secret[0] ^= 0xff

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(engine.Close)

	tokenStr, err := engine.jwtManager.Issue(1, time.Hour, nil, "user")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := engine.Validate(context.Background(), tokenStr); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}
