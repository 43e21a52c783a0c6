package middleware

import (
	"context"
	"net/http"
	"strings"

	goOAuth "github.com/MrEthical07/goOAuth"
	"github.com/MrEthical07/goOAuth/jwt"
)

type claimsContextKey struct{}

// ClaimsFromContext retrieves the claims a guard injected for this request.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*jwt.Claims)
	return claims, ok
}

// Guard validates the bearer token on every request and injects the
// decoded claims into the request context. Missing or malformed
// Authorization headers are rejected before the engine is consulted.
func Guard(engine *goOAuth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := engine.Validate(r.Context(), token)
			if err != nil {
				http.Error(w, goOAuth.WireError(err), goOAuth.HTTPStatus(err))
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminGuard is [Guard] plus the administrative role check: the token's
// subject must resolve to an existing user with role "admin".
func AdminGuard(engine *goOAuth.Engine) func(http.Handler) http.Handler {
	guard := Guard(engine)
	return func(next http.Handler) http.Handler {
		return guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if _, err := engine.RequireAdmin(r.Context(), claims); err != nil {
				http.Error(w, goOAuth.WireError(err), goOAuth.HTTPStatus(err))
				return
			}

			next.ServeHTTP(w, r)
		}))
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
