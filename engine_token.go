package goOAuth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MrEthical07/goOAuth/jwt"
)

// Token redeems an authorization code for an access/refresh token pair.
// The code is consumed atomically before client authentication so that a
// failed exchange still burns it; a burned code can never be retried with
// better credentials.
func (e *Engine) Token(ctx context.Context, req TokenRequest) (*TokenResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if req.GrantType != "authorization_code" {
		e.metricInc(MetricTokenExchangeFailure)
		return nil, ErrInvalidGrantType
	}

	if req.Code == "" {
		e.metricInc(MetricTokenExchangeFailure)
		return nil, fmt.Errorf("%w: missing code", ErrBadRequest)
	}

	authData, err := e.repo.ConsumeAuthCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: consume auth code: %v", ErrDatabase, err)
	}
	if authData == nil {
		e.metricInc(MetricTokenExchangeFailure)
		e.metricInc(MetricCodeReplayRejected)
		event := newAuditEvent(AuditCodeReplay, false)
		event.ClientID = req.ClientID
		event.Error = "unknown or already used code"
		e.emitAudit(ctx, event)
		return nil, ErrInvalidAuthCode
	}

	// Expiry is checked independently of the used flag. The code is
	// already burned at this point; that is deliberate.
	if time.Now().After(authData.ExpiresAt) {
		e.metricInc(MetricTokenExchangeFailure)
		e.auditTokenDenied(ctx, req, authData.UserID, "expired code")
		return nil, ErrInvalidAuthCode
	}

	client, err := e.repo.FindClientByID(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if client == nil {
		e.metricInc(MetricTokenExchangeFailure)
		e.auditTokenDenied(ctx, req, authData.UserID, "unknown client")
		return nil, ErrInvalidClient
	}
	if subtle.ConstantTimeCompare([]byte(client.Secret), []byte(req.ClientSecret)) != 1 {
		e.metricInc(MetricTokenExchangeFailure)
		e.auditTokenDenied(ctx, req, authData.UserID, "bad client secret")
		return nil, ErrInvalidClient
	}

	if authData.RedirectURI != req.RedirectURI {
		e.metricInc(MetricTokenExchangeFailure)
		e.auditTokenDenied(ctx, req, authData.UserID, "redirect_uri mismatch")
		return nil, ErrInvalidRedirectURI
	}

	user, err := e.repo.FindUserByID(ctx, authData.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if user == nil {
		e.metricInc(MetricTokenExchangeFailure)
		return nil, ErrNotFound
	}

	policy, err := e.AuthPolicy(ctx)
	if err != nil {
		return nil, err
	}

	scopes := ParseScopes(authData.Scope)

	accessToken, err := e.jwtManager.Issue(user.ID, policy.AccessTokenTTL, scopes, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	refreshToken, err := e.jwtManager.Issue(user.ID, policy.RefreshTokenTTL, []string{"refresh"}, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	now := time.Now()
	accessID, err := e.repo.SaveAccessToken(ctx, &AccessTokenRecord{
		Token:     accessToken,
		UserID:    user.ID,
		ClientID:  authData.ClientID,
		Scope:     authData.Scope,
		ExpiresAt: now.Add(policy.AccessTokenTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: save access token: %v", ErrDatabase, err)
	}
	// A failure here leaves the access token row behind. The operation is
	// not idempotent on retry; callers get ErrDatabase and start over.
	if err := e.repo.SaveRefreshToken(ctx, &RefreshTokenRecord{
		Token:         refreshToken,
		AccessTokenID: accessID,
		ExpiresAt:     now.Add(policy.RefreshTokenTTL),
	}); err != nil {
		return nil, fmt.Errorf("%w: save refresh token: %v", ErrDatabase, err)
	}

	_ = e.cache.Set(ctx, cacheKeyToken+accessToken, formatUserID(user.ID), policy.AccessTokenTTL)
	_ = e.cache.Delete(ctx, cacheKeyAuthCode+req.Code)

	var idToken string
	if slices.Contains(scopes, "openid") {
		idToken, err = e.jwtManager.IssueIDToken(jwt.IDTokenClaims{
			Issuer:        e.config.OIDC.Issuer,
			Subject:       user.ID,
			Audience:      authData.ClientID,
			TTL:           policy.AccessTokenTTL,
			Name:          user.Username,
			Email:         user.Email,
			EmailVerified: user.EmailVerified,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	e.metricInc(MetricTokenExchangeSuccess)

	event := newAuditEvent(AuditTokenIssued, true)
	event.UserID = formatUserID(user.ID)
	event.ClientID = authData.ClientID
	e.emitAudit(ctx, event)

	return &TokenResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(policy.AccessTokenTTL / time.Second),
		IDToken:      idToken,
	}, nil
}

// ParseScopes interprets a raw scope value as either a JSON string array
// or a space-separated list. An empty value yields nil.
func ParseScopes(raw string) []string {
	if raw == "" {
		return nil
	}

	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		return parsed
	}

	return strings.Fields(raw)
}

func (e *Engine) auditTokenDenied(ctx context.Context, req TokenRequest, userID int64, reason string) {
	event := newAuditEvent(AuditTokenDenied, false)
	event.UserID = formatUserID(userID)
	event.ClientID = req.ClientID
	event.Error = reason
	e.emitAudit(ctx, event)
}
