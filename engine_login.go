package goOAuth

import (
	"context"
	"fmt"
	"time"
)

// Register creates a new account under the active registration policy.
// The invite code is validated and burned only after the account exists,
// so a failed create never spends an invite.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}
	policy, err := e.RegistrationPolicy(ctx)
	if err != nil {
		return 0, err
	}

	if !policy.Enabled {
		e.metricInc(MetricRegisterRejected)
		e.auditRegister(ctx, req.Username, false, "registration disabled")
		return 0, fmt.Errorf("%w: registration is disabled", ErrBadRequest)
	}

	if req.Username == "" || req.Email == "" {
		e.metricInc(MetricRegisterRejected)
		return 0, fmt.Errorf("%w: username and email required", ErrBadRequest)
	}
	if len(req.Password) < e.config.Password.MinLength {
		e.metricInc(MetricRegisterRejected)
		return 0, fmt.Errorf("%w: password must be at least %d characters", ErrBadRequest, e.config.Password.MinLength)
	}

	if policy.RequireInvite && req.InviteCode == "" {
		e.metricInc(MetricRegisterRejected)
		e.auditRegister(ctx, req.Username, false, "invite code required")
		return 0, fmt.Errorf("%w: invite code required", ErrBadRequest)
	}

	existing, err := e.repo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if existing != nil {
		e.metricInc(MetricRegisterRejected)
		e.auditRegister(ctx, req.Username, false, "username taken")
		return 0, fmt.Errorf("%w: username already exists", ErrBadRequest)
	}

	existing, err = e.repo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if existing != nil {
		e.metricInc(MetricRegisterRejected)
		e.auditRegister(ctx, req.Username, false, "email taken")
		return 0, fmt.Errorf("%w: email already exists", ErrBadRequest)
	}

	hash, err := e.passwordHash.Hash(req.Password)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	userID, err := e.repo.CreateUser(ctx, &User{
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         "user",
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: create user: %v", ErrDatabase, err)
	}

	if policy.RequireInvite {
		ok, err := e.repo.VerifyAndUseInviteCode(ctx, req.InviteCode)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrDatabase, err)
		}
		if !ok {
			e.metricInc(MetricRegisterRejected)
			e.auditRegister(ctx, req.Username, false, "invalid invite code")
			return 0, fmt.Errorf("%w: invalid invite code", ErrBadRequest)
		}
	}

	e.metricInc(MetricRegisterSuccess)
	e.auditRegister(ctx, req.Username, true, "")

	return userID, nil
}

// Login verifies credentials and issues an access/refresh pair. Unknown
// username and wrong password are indistinguishable to the caller.
func (e *Engine) Login(ctx context.Context, username, plaintext string) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	user, err := e.repo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if user == nil {
		e.metricInc(MetricLoginFailure)
		e.auditLogin(ctx, username, false, "unknown user")
		return nil, ErrInvalidCredentials
	}

	ok, err := e.passwordHash.Verify(plaintext, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !ok {
		e.metricInc(MetricLoginFailure)
		e.auditLogin(ctx, username, false, "bad password")
		return nil, ErrInvalidCredentials
	}

	// Best effort; a failed timestamp update must not block the login.
	_ = e.repo.UpdateLoginInfo(ctx, user.ID, time.Now().UTC())

	policy, err := e.AuthPolicy(ctx)
	if err != nil {
		return nil, err
	}

	accessToken, err := e.jwtManager.Issue(user.ID, policy.AccessTokenTTL, []string{"read", "write"}, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	refreshToken, err := e.jwtManager.Issue(user.ID, policy.RefreshTokenTTL, []string{"refresh"}, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	_ = e.cache.Set(ctx, cacheKeyToken+accessToken, formatUserID(user.ID), policy.AccessTokenTTL)

	e.metricInc(MetricLoginSuccess)
	event := newAuditEvent(AuditLoginSuccess, true)
	event.UserID = formatUserID(user.ID)
	e.emitAudit(ctx, event)

	return &LoginResult{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(policy.AccessTokenTTL / time.Second),
	}, nil
}

func (e *Engine) auditRegister(ctx context.Context, username string, success bool, reason string) {
	eventType := AuditRegisterRejected
	if success {
		eventType = AuditRegisterSuccess
	}
	event := newAuditEvent(eventType, success)
	event.Metadata = map[string]string{"username": username}
	event.Error = reason
	e.emitAudit(ctx, event)
}

func (e *Engine) auditLogin(ctx context.Context, username string, success bool, reason string) {
	eventType := AuditLoginFailure
	if success {
		eventType = AuditLoginSuccess
	}
	event := newAuditEvent(eventType, success)
	event.Metadata = map[string]string{"username": username}
	event.Error = reason
	e.emitAudit(ctx, event)
}
