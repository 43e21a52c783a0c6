package goOAuth

import (
	"context"
	"fmt"
	"time"
)

// RevokeAuthorization withdraws a user's grant to one client: every
// access and refresh token issued to the pair is deleted from storage,
// and each deleted access token string gets a blacklist entry so copies
// already in flight are denied for the rest of their lifetime. The
// blacklist entries are what make revocation effective before expiry;
// the guard checks them on every request.
func (e *Engine) RevokeAuthorization(ctx context.Context, userID int64, clientID string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	tokens, err := e.repo.DeleteTokensFor(ctx, userID, clientID)
	if err != nil {
		return fmt.Errorf("%w: revoke authorization: %v", ErrDatabase, err)
	}

	policy, err := e.AuthPolicy(ctx)
	if err != nil {
		return err
	}

	// Entries outlive the longest-lived token they could be denying.
	ttl := policy.AccessTokenTTL
	var blacklistErr error
	for _, token := range tokens {
		if err := e.cache.Set(ctx, cacheKeyBlacklist+token, "revoked", ttl); err != nil {
			blacklistErr = err
		}
		_ = e.cache.Delete(ctx, cacheKeyToken+token)
	}

	e.metricInc(MetricRevocation)

	event := newAuditEvent(AuditRevocation, blacklistErr == nil)
	event.UserID = formatUserID(userID)
	event.ClientID = clientID
	event.Metadata = map[string]string{"tokens": fmt.Sprintf("%d", len(tokens))}
	if blacklistErr != nil {
		event.Error = blacklistErr.Error()
	}
	e.emitAudit(ctx, event)

	if blacklistErr != nil {
		return fmt.Errorf("%w: blacklist write failed: %v", ErrCacheUnavailable, blacklistErr)
	}
	return nil
}

// Logout blacklists the presented token for the remainder of its
// lifetime. An already invalid token is a no-op success; logout is
// idempotent from the caller's point of view.
func (e *Engine) Logout(ctx context.Context, tokenStr string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	claims, err := e.Validate(ctx, tokenStr)
	if err != nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	if err := e.cache.Set(ctx, cacheKeyBlacklist+tokenStr, "logout", remaining); err != nil {
		return err
	}
	_ = e.cache.Delete(ctx, cacheKeyToken+tokenStr)

	e.metricInc(MetricLogout)

	event := newAuditEvent(AuditLogout, true)
	event.UserID = claims.Subject
	e.emitAudit(ctx, event)

	return nil
}
