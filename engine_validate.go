package goOAuth

import (
	"context"
	"time"

	"github.com/MrEthical07/goOAuth/jwt"
)

// Validate authenticates a bearer token. The blacklist is consulted
// before the signature check: presence in the blacklist is authoritative
// for denial, and a blacklisted token reports ErrTokenExpired so callers
// cannot tell revocation apart from natural expiry. Absence proves
// nothing; the codec still has to accept the token.
func (e *Engine) Validate(ctx context.Context, tokenStr string) (*jwt.Claims, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	start := time.Now()
	defer func() {
		e.metricObserve(MetricValidateLatency, time.Since(start))
	}()

	if tokenStr == "" {
		return nil, ErrUnauthorized
	}

	if e.cache.Exists(ctx, cacheKeyBlacklist+tokenStr) {
		e.metricInc(MetricBlacklistDenial)
		return nil, ErrTokenExpired
	}

	claims, err := e.jwtManager.Verify(tokenStr)
	if err != nil {
		// jwt sentinel errors are aliased by the root sentinels, so this
		// is already ErrTokenExpired or ErrInvalidToken.
		return nil, err
	}

	return claims, nil
}

// RequireAdmin authorizes claims for the administrative surface: the
// subject must resolve to an existing user whose role is "admin".
func (e *Engine) RequireAdmin(ctx context.Context, claims *jwt.Claims) (*User, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if claims == nil {
		return nil, ErrUnauthorized
	}

	userID, err := jwt.SubjectID(claims)
	if err != nil {
		return nil, ErrInternal
	}

	user, err := e.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, ErrDatabase
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	if user.Role != "admin" {
		return nil, ErrForbidden
	}

	return user, nil
}
