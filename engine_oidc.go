package goOAuth

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goOAuth/jwt"
)

// UserInfo resolves validated claims to the OIDC userinfo response.
func (e *Engine) UserInfo(ctx context.Context, claims *jwt.Claims) (*UserInfo, error) {
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
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	return &UserInfo{
		Sub:           formatUserID(user.ID),
		Name:          user.Username,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
	}, nil
}

// Discovery returns the OIDC provider metadata. Endpoint URLs are derived
// from the configured issuer.
func (e *Engine) Discovery() DiscoveryDocument {
	if e == nil {
		return DiscoveryDocument{}
	}
	base := e.config.OIDC.Issuer

	return DiscoveryDocument{
		Issuer:                            base,
		AuthorizationEndpoint:             base + "/oauth/authorize",
		TokenEndpoint:                     base + "/oauth/token",
		UserinfoEndpoint:                  base + "/oauth/userinfo",
		JWKSURI:                           base + "/.well-known/jwks.json",
		ResponseTypesSupported:            []string{"code"},
		SubjectTypesSupported:             []string{"public"},
		IDTokenSigningAlgValuesSupported:  []string{"HS256"},
		ScopesSupported:                   []string{"openid", "profile", "email"},
		TokenEndpointAuthMethodsSupported: []string{"client_secret_post"},
		ClaimsSupported:                   []string{"sub", "name", "email", "email_verified"},
	}
}

// JWKS returns the published key set. Tokens are signed with a shared
// HS256 secret, which must never leave the server, so the set is empty.
func (e *Engine) JWKS() JWKSDocument {
	return JWKSDocument{Keys: []any{}}
}
