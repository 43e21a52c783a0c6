package goOAuth

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/MrEthical07/goOAuth/internal/random"
)

// Authorize validates an authorization request on behalf of an already
// authenticated end user and mints a single-use authorization code.
// Validation order: response_type, client, redirect URI, user existence,
// then issuance under the active lifetime policy.
func (e *Engine) Authorize(ctx context.Context, req AuthorizeRequest, identity *Identity) (*AuthorizeResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if req.ResponseType != "code" {
		e.metricInc(MetricAuthorizeFailure)
		return nil, fmt.Errorf("%w: unsupported response_type", ErrBadRequest)
	}

	client, err := e.repo.FindClientByID(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if client == nil {
		e.metricInc(MetricAuthorizeFailure)
		e.auditAuthorizeDenied(ctx, req, identity, "unknown client")
		return nil, ErrInvalidClient
	}

	registered, err := e.repo.VerifyRedirectURI(ctx, req.ClientID, req.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if !registered {
		e.metricInc(MetricAuthorizeFailure)
		e.auditAuthorizeDenied(ctx, req, identity, "redirect_uri mismatch")
		return nil, ErrInvalidRedirectURI
	}

	if identity == nil {
		e.metricInc(MetricAuthorizeFailure)
		return nil, ErrUnauthorized
	}
	user, err := e.repo.FindUserByID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if user == nil {
		e.metricInc(MetricAuthorizeFailure)
		return nil, ErrNotFound
	}

	policy, err := e.AuthPolicy(ctx)
	if err != nil {
		return nil, err
	}

	code, err := random.AuthCode()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	rec := &AuthCodeRecord{
		Code:        code,
		ClientID:    req.ClientID,
		UserID:      user.ID,
		RedirectURI: req.RedirectURI,
		Scope:       req.Scope,
		ExpiresAt:   time.Now().Add(policy.AuthCodeTTL),
	}
	if err := e.repo.SaveAuthCode(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: save auth code: %v", ErrDatabase, err)
	}

	// Hint entry only; redemption always goes through the repository.
	_ = e.cache.Set(ctx, cacheKeyAuthCode+code, "valid", policy.AuthCodeTTL)

	e.metricInc(MetricAuthorizeSuccess)

	event := newAuditEvent(AuditAuthorizeGranted, true)
	event.UserID = formatUserID(user.ID)
	event.ClientID = req.ClientID
	e.emitAudit(ctx, event)

	return &AuthorizeResult{
		Code:        code,
		State:       req.State,
		RedirectURL: buildRedirectURL(req.RedirectURI, code, req.State),
	}, nil
}

// buildRedirectURL appends code and state to the client's redirect target,
// preserving any query parameters it already carries.
func buildRedirectURL(redirectURI, code, state string) string {
	u, err := url.Parse(redirectURI)
	if err != nil {
		// Redirect URI was validated against the client registration; a
		// parse failure here means the registration itself is malformed.
		// Fall back to naive concatenation.
		sep := "?"
		out := redirectURI + sep + "code=" + url.QueryEscape(code)
		if state != "" {
			out += "&state=" + url.QueryEscape(state)
		}
		return out
	}

	q := u.Query()
	q.Set("code", code)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (e *Engine) auditAuthorizeDenied(ctx context.Context, req AuthorizeRequest, identity *Identity, reason string) {
	event := newAuditEvent(AuditAuthorizeDenied, false)
	if identity != nil {
		event.UserID = formatUserID(identity.UserID)
	}
	event.ClientID = req.ClientID
	event.Error = reason
	e.emitAudit(ctx, event)
}
