package goOAuth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goOAuth/jwt"
)

func TestValidateAcceptsIssuedToken(t *testing.T) {
	e, repo := buildTestEngine(t)
	ctx := context.Background()
	repo.seedLoginUser(t, e, "alice", "correct-horse-battery", "user")

	result, err := e.Login(ctx, "alice", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	claims, err := e.Validate(ctx, result.AccessToken)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if claims.Subject != formatUserID(result.UserID) {
		t.Fatalf("subject = %q", claims.Subject)
	}
}

func TestValidateRejectsEmptyToken(t *testing.T) {
	e, _ := buildTestEngine(t)

	if _, err := e.Validate(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	e, _ := buildTestEngine(t)

	if _, err := e.Validate(context.Background(), "not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	e, _ := buildTestEngine(t)

	tokenStr, err := e.jwtManager.Issue(1, -time.Second, nil, "user")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := e.Validate(context.Background(), tokenStr); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("error = %v, want ErrTokenExpired", err)
	}
}

func TestValidateBlacklistedTokenReportsExpired(t *testing.T) {
	e, repo := buildTestEngine(t)
	ctx := context.Background()
	repo.seedLoginUser(t, e, "alice", "correct-horse-battery", "user")

	result, err := e.Login(ctx, "alice", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if err := e.cache.Set(ctx, cacheKeyBlacklist+result.AccessToken, "revoked", time.Hour); err != nil {
		t.Fatalf("blacklist seed error: %v", err)
	}

	// A cryptographically valid token must still be denied, and the
	// denial must look like natural expiry.
	if _, err := e.Validate(ctx, result.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("error = %v, want ErrTokenExpired", err)
	}
	if e.MetricsSnapshot().Counters[MetricBlacklistDenial] != 1 {
		t.Fatal("expected one blacklist denial metric")
	}
}

func TestRequireAdmin(t *testing.T) {
	e, repo := buildTestEngine(t)
	ctx := context.Background()

	adminID := repo.seedLoginUser(t, e, "root", "admin-password-1", "admin")
	userID := repo.seedLoginUser(t, e, "bob", "user-password-22", "user")

	adminToken, err := e.jwtManager.Issue(adminID, time.Hour, nil, "admin")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	userToken, err := e.jwtManager.Issue(userID, time.Hour, nil, "user")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	adminClaims, err := e.Validate(ctx, adminToken)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	user, err := e.RequireAdmin(ctx, adminClaims)
	if err != nil {
		t.Fatalf("RequireAdmin error: %v", err)
	}
	if user.ID != adminID {
		t.Fatalf("user id = %d, want %d", user.ID, adminID)
	}

	userClaims, err := e.Validate(ctx, userToken)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if _, err := e.RequireAdmin(ctx, userClaims); !errors.Is(err, ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}

	if _, err := e.RequireAdmin(ctx, nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("nil claims error = %v, want ErrUnauthorized", err)
	}
}

func TestRequireAdminNonIntegerSubject(t *testing.T) {
	e, _ := buildTestEngine(t)

	claims := &jwt.Claims{}
	claims.Subject = "not-a-number"
	if _, err := e.RequireAdmin(context.Background(), claims); !errors.Is(err, ErrInternal) {
		t.Fatalf("error = %v, want ErrInternal", err)
	}
}

func TestRequireAdminDeletedUser(t *testing.T) {
	e, _ := buildTestEngine(t)

	claims := &jwt.Claims{}
	claims.Subject = "424242"
	if _, err := e.RequireAdmin(context.Background(), claims); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}
