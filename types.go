package goOAuth

import (
	"context"
	"time"
)

// User is the account record behind every grant. ID is the numeric subject
// that ends up in token claims.
type User struct {
	ID            int64
	Username      string
	Email         string
	Name          string
	PasswordHash  string
	Role          string
	EmailVerified bool
	CreatedAt     time.Time
	LastLoginAt   time.Time
}

// Client is a registered OAuth2 client. Secret holds the plaintext the
// client presents at the token endpoint; RedirectURI is the single exact
// redirect target allowed for this client.
type Client struct {
	ID          string
	Secret      string
	Name        string
	RedirectURI string
}

// AuthCodeRecord is a persisted authorization code. Used flips to true on
// redemption and the row is never deleted, so a replayed code is
// distinguishable from a code that never existed. Scope holds the raw
// scope parameter exactly as the client sent it.
type AuthCodeRecord struct {
	Code        string
	ClientID    string
	UserID      int64
	RedirectURI string
	Scope       string
	ExpiresAt   time.Time
	Used        bool
}

// AccessTokenRecord is a persisted access token. ID anchors the refresh
// token that was minted alongside it.
type AccessTokenRecord struct {
	ID        int64
	Token     string
	UserID    int64
	ClientID  string
	Scope     string
	ExpiresAt time.Time
}

// RefreshTokenRecord is a persisted refresh token bound to the access
// token row it was issued with.
type RefreshTokenRecord struct {
	Token         string
	AccessTokenID int64
	ExpiresAt     time.Time
}

// AuditLogEntry is one row of the append-only configuration audit log kept
// in durable storage. The in-process audit dispatcher mirrors these events
// to the configured sink.
type AuditLogEntry struct {
	Timestamp time.Time
	Actor     string
	Action    string
	Detail    string
}

// UserStore is the account half of the repository contract. Find methods
// return (nil, nil) when no row matches; errors are reserved for storage
// failures.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) (int64, error)
	FindUserByID(ctx context.Context, id int64) (*User, error)
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateLoginInfo(ctx context.Context, id int64, at time.Time) error
}

// ClientStore resolves registered clients. FindClientByID returns
// (nil, nil) when the client is unknown. VerifyRedirectURI reports whether
// uri is registered for the client; storage owns the matching rule so an
// implementation may support more than one uri per client.
type ClientStore interface {
	FindClientByID(ctx context.Context, id string) (*Client, error)
	VerifyRedirectURI(ctx context.Context, clientID, uri string) (bool, error)
}

// TokenStore persists authorization codes and issued tokens.
//
// ConsumeAuthCode must be atomic: find the code, and only if it exists and
// Used is false, mark it used and return the record. Two concurrent calls
// for the same code must not both succeed. Implementations typically use a
// conditional UPDATE or an equivalent compare-and-set. A code that is
// unknown or already used returns (nil, nil).
type TokenStore interface {
	SaveAuthCode(ctx context.Context, rec *AuthCodeRecord) error
	ConsumeAuthCode(ctx context.Context, code string) (*AuthCodeRecord, error)
	SaveAccessToken(ctx context.Context, rec *AccessTokenRecord) (int64, error)
	SaveRefreshToken(ctx context.Context, rec *RefreshTokenRecord) error
	// DeleteTokensFor removes every access and refresh token issued to the
	// user/client pair and returns the deleted access token strings so the
	// caller can blacklist them.
	DeleteTokensFor(ctx context.Context, userID int64, clientID string) ([]string, error)
}

// SettingsStore holds runtime policy values and the durable audit log.
// GetSetting returns ErrNotFound when the key has never been written.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	AppendAuditLog(ctx context.Context, entry *AuditLogEntry) error
}

// InviteStore validates and burns registration invite codes.
// VerifyAndUseInviteCode returns false when the code is unknown or already
// spent; it must not be reusable after a true return.
type InviteStore interface {
	VerifyAndUseInviteCode(ctx context.Context, code string) (bool, error)
}

// Repository is the full persistence contract callers implement to
// integrate goOAuth with their database.
type Repository interface {
	UserStore
	ClientStore
	TokenStore
	SettingsStore
	InviteStore
}

// Identity is the already-authenticated end user on whose behalf an
// authorization code is requested.
type Identity struct {
	UserID   int64
	Username string
}

// AuthorizeRequest carries the query parameters of an authorization
// request. Scope is the raw parameter, either a space-separated list or a
// JSON array.
type AuthorizeRequest struct {
	ResponseType string
	ClientID     string
	RedirectURI  string
	Scope        string
	State        string
}

// AuthorizeResult is a granted authorization. RedirectURL is the full
// client redirect target with code and state appended.
type AuthorizeResult struct {
	Code        string
	State       string
	RedirectURL string
}

// TokenRequest carries the parameters of a token exchange. The json tags
// match the wire body the token endpoint receives.
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	Code         string `json:"code"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
}

// TokenResult is a successful token exchange. ExpiresIn is in seconds.
// IDToken is set only when the redeemed code carried the openid scope.
type TokenResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	IDToken      string `json:"id_token,omitempty"`
}

// RegisterRequest is the input for [Engine.Register]. InviteCode is
// required only when the registration policy demands one.
type RegisterRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	InviteCode string `json:"invite_code"`
}

// LoginResult is returned by [Engine.Login]. ExpiresIn is in seconds.
type LoginResult struct {
	UserID       int64
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
}

// UserInfo is the OIDC userinfo response for a validated token.
type UserInfo struct {
	Sub           string `json:"sub"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

// AuthPolicy is the runtime-tunable lifetime policy for issued artifacts.
type AuthPolicy struct {
	AccessTokenTTL  time.Duration `json:"access_token_ttl"`
	RefreshTokenTTL time.Duration `json:"refresh_token_ttl"`
	AuthCodeTTL     time.Duration `json:"auth_code_ttl"`
}

// RegistrationPolicy controls whether and how new accounts can be created.
type RegistrationPolicy struct {
	Enabled       bool `json:"enabled"`
	RequireInvite bool `json:"require_invite"`
}

// DiscoveryDocument is the OIDC provider metadata served at
// /.well-known/openid-configuration.
type DiscoveryDocument struct {
	Issuer                            string   `json:"issuer"`
	AuthorizationEndpoint             string   `json:"authorization_endpoint"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	UserinfoEndpoint                  string   `json:"userinfo_endpoint"`
	JWKSURI                           string   `json:"jwks_uri"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	SubjectTypesSupported             []string `json:"subject_types_supported"`
	IDTokenSigningAlgValuesSupported  []string `json:"id_token_signing_alg_values_supported"`
	ScopesSupported                   []string `json:"scopes_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	ClaimsSupported                   []string `json:"claims_supported"`
}

// JWKSDocument is the published key set. Signing uses a shared HS256
// secret, so the key list is always empty.
type JWKSDocument struct {
	Keys []any `json:"keys"`
}
