package goOAuth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Settings keys for runtime policy. Values are JSON documents with
// lifetimes in whole seconds.
const (
	settingAuthPolicy   = "auth_policy"
	settingRegistration = "registration"
)

type authPolicyJSON struct {
	AccessTokenExpire  int64 `json:"access_token_expire"`
	RefreshTokenExpire int64 `json:"refresh_token_expire"`
	AuthCodeExpire     int64 `json:"authorization_code_expire"`
}

// AuthPolicy returns the active lifetime policy: the stored policy when
// one exists, the configured startup policy otherwise. Reads go through
// the cache with a bounded staleness window, so a policy update becomes
// visible everywhere within PolicyCacheTTL at the latest.
func (e *Engine) AuthPolicy(ctx context.Context) (AuthPolicy, error) {
	if e == nil {
		return AuthPolicy{}, ErrEngineNotReady
	}
	if cached, ok := e.cacheGet(ctx, cacheKeyAuthPolicy); ok {
		var doc authPolicyJSON
		if err := json.Unmarshal([]byte(cached), &doc); err == nil {
			return policyFromJSON(doc), nil
		}
	}

	raw, err := e.repo.GetSetting(ctx, settingAuthPolicy)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return e.configPolicy(), nil
		}
		return AuthPolicy{}, fmt.Errorf("%w: load auth policy: %v", ErrDatabase, err)
	}

	var doc authPolicyJSON
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return AuthPolicy{}, fmt.Errorf("%w: malformed auth policy: %v", ErrConfig, err)
	}

	_ = e.cache.Set(ctx, cacheKeyAuthPolicy, raw, e.config.Policy.PolicyCacheTTL)

	return policyFromJSON(doc), nil
}

// UpdateAuthPolicy persists a new lifetime policy, appends the durable
// audit log, and invalidates the cached copy.
func (e *Engine) UpdateAuthPolicy(ctx context.Context, actor string, policy AuthPolicy) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if policy.AccessTokenTTL <= 0 || policy.RefreshTokenTTL <= 0 || policy.AuthCodeTTL <= 0 {
		return fmt.Errorf("%w: policy lifetimes must be > 0", ErrBadRequest)
	}

	doc := authPolicyJSON{
		AccessTokenExpire:  int64(policy.AccessTokenTTL / time.Second),
		RefreshTokenExpire: int64(policy.RefreshTokenTTL / time.Second),
		AuthCodeExpire:     int64(policy.AuthCodeTTL / time.Second),
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode auth policy: %v", ErrInternal, err)
	}

	if err := e.repo.SetSetting(ctx, settingAuthPolicy, string(raw)); err != nil {
		return fmt.Errorf("%w: store auth policy: %v", ErrDatabase, err)
	}

	if err := e.repo.AppendAuditLog(ctx, &AuditLogEntry{
		Timestamp: time.Now().UTC(),
		Actor:     actor,
		Action:    "update_auth_policy",
		Detail:    string(raw),
	}); err != nil {
		return fmt.Errorf("%w: append audit log: %v", ErrDatabase, err)
	}

	if err := e.cache.Delete(ctx, cacheKeyAuthPolicy); err != nil {
		return err
	}

	event := newAuditEvent(AuditPolicyUpdated, true)
	event.UserID = actor
	event.Metadata = map[string]string{"policy": string(raw)}
	e.emitAudit(ctx, event)

	return nil
}

// RegistrationPolicy returns the active registration policy, stored over
// configured, cached like the auth policy.
func (e *Engine) RegistrationPolicy(ctx context.Context) (RegistrationPolicy, error) {
	if e == nil {
		return RegistrationPolicy{}, ErrEngineNotReady
	}
	if cached, ok := e.cacheGet(ctx, cacheKeyRegistration); ok {
		var policy RegistrationPolicy
		if err := json.Unmarshal([]byte(cached), &policy); err == nil {
			return policy, nil
		}
	}

	raw, err := e.repo.GetSetting(ctx, settingRegistration)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return e.config.Policy.Registration, nil
		}
		return RegistrationPolicy{}, fmt.Errorf("%w: load registration policy: %v", ErrDatabase, err)
	}

	var policy RegistrationPolicy
	if err := json.Unmarshal([]byte(raw), &policy); err != nil {
		return RegistrationPolicy{}, fmt.Errorf("%w: malformed registration policy: %v", ErrConfig, err)
	}

	_ = e.cache.Set(ctx, cacheKeyRegistration, raw, e.config.Policy.PolicyCacheTTL)

	return policy, nil
}

// UpdateRegistrationPolicy persists a new registration policy with audit
// logging and cache invalidation.
func (e *Engine) UpdateRegistrationPolicy(ctx context.Context, actor string, policy RegistrationPolicy) error {
	if e == nil {
		return ErrEngineNotReady
	}
	raw, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("%w: encode registration policy: %v", ErrInternal, err)
	}

	if err := e.repo.SetSetting(ctx, settingRegistration, string(raw)); err != nil {
		return fmt.Errorf("%w: store registration policy: %v", ErrDatabase, err)
	}

	if err := e.repo.AppendAuditLog(ctx, &AuditLogEntry{
		Timestamp: time.Now().UTC(),
		Actor:     actor,
		Action:    "update_registration_policy",
		Detail:    string(raw),
	}); err != nil {
		return fmt.Errorf("%w: append audit log: %v", ErrDatabase, err)
	}

	if err := e.cache.Delete(ctx, cacheKeyRegistration); err != nil {
		return err
	}

	event := newAuditEvent(AuditPolicyUpdated, true)
	event.UserID = actor
	event.Metadata = map[string]string{"policy": string(raw)}
	e.emitAudit(ctx, event)

	return nil
}

func (e *Engine) configPolicy() AuthPolicy {
	return AuthPolicy{
		AccessTokenTTL:  e.config.Policy.AccessTokenTTL,
		RefreshTokenTTL: e.config.Policy.RefreshTokenTTL,
		AuthCodeTTL:     e.config.Policy.AuthCodeTTL,
	}
}

func policyFromJSON(doc authPolicyJSON) AuthPolicy {
	return AuthPolicy{
		AccessTokenTTL:  time.Duration(doc.AccessTokenExpire) * time.Second,
		RefreshTokenTTL: time.Duration(doc.RefreshTokenExpire) * time.Second,
		AuthCodeTTL:     time.Duration(doc.AuthCodeExpire) * time.Second,
	}
}
