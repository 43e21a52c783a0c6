package goOAuth

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestUserInfo(t *testing.T) {
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

	info, err := e.UserInfo(ctx, claims)
	if err != nil {
		t.Fatalf("UserInfo error: %v", err)
	}
	if info.Sub != formatUserID(result.UserID) {
		t.Fatalf("sub = %q", info.Sub)
	}
	if info.Name != "alice" {
		t.Fatalf("name = %q", info.Name)
	}
	if info.Email != "alice@test.local" {
		t.Fatalf("email = %q", info.Email)
	}
	if !info.EmailVerified {
		t.Fatal("email_verified = false")
	}
}

func TestUserInfoNilClaims(t *testing.T) {
	e, _ := buildTestEngine(t)

	if _, err := e.UserInfo(context.Background(), nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}

func TestDiscoveryDocument(t *testing.T) {
	e, _ := buildTestEngine(t)

	doc := e.Discovery()
	if doc.Issuer != "http://auth.test" {
		t.Fatalf("issuer = %q", doc.Issuer)
	}
	if doc.AuthorizationEndpoint != "http://auth.test/oauth/authorize" {
		t.Fatalf("authorization_endpoint = %q", doc.AuthorizationEndpoint)
	}
	if doc.TokenEndpoint != "http://auth.test/oauth/token" {
		t.Fatalf("token_endpoint = %q", doc.TokenEndpoint)
	}
	if doc.UserinfoEndpoint != "http://auth.test/oauth/userinfo" {
		t.Fatalf("userinfo_endpoint = %q", doc.UserinfoEndpoint)
	}
	if doc.JWKSURI != "http://auth.test/.well-known/jwks.json" {
		t.Fatalf("jwks_uri = %q", doc.JWKSURI)
	}
	if !reflect.DeepEqual(doc.ResponseTypesSupported, []string{"code"}) {
		t.Fatalf("response_types = %v", doc.ResponseTypesSupported)
	}
	if !reflect.DeepEqual(doc.IDTokenSigningAlgValuesSupported, []string{"HS256"}) {
		t.Fatalf("signing algs = %v", doc.IDTokenSigningAlgValuesSupported)
	}
	if !reflect.DeepEqual(doc.TokenEndpointAuthMethodsSupported, []string{"client_secret_post"}) {
		t.Fatalf("auth methods = %v", doc.TokenEndpointAuthMethodsSupported)
	}
}

func TestJWKSAlwaysEmpty(t *testing.T) {
	e, _ := buildTestEngine(t)

	doc := e.JWKS()
	if doc.Keys == nil {
		t.Fatal("keys must be an empty list, not null")
	}
	if len(doc.Keys) != 0 {
		t.Fatalf("keys = %v, want empty", doc.Keys)
	}
}
