package goOAuth

import (
	"errors"
	"net/http"

	"github.com/MrEthical07/goOAuth/jwt"
)

var (
	// ErrUnauthorized is returned when a request carries no usable identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned when a username/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenExpired is returned when a token is past its expiry or explicitly
	// blacklisted. It aliases the codec sentinel so errors.Is works across packages.
	ErrTokenExpired = jwt.ErrTokenExpired
	// ErrInvalidToken is returned for every token defect other than expiry.
	// Signature failures and malformed tokens are deliberately indistinguishable.
	ErrInvalidToken = jwt.ErrTokenInvalid
	// ErrForbidden is returned when an authenticated caller lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidClient is returned when a client id is unknown or its secret does not match.
	ErrInvalidClient = errors.New("invalid oauth2 client")
	// ErrInvalidAuthCode is returned when an authorization code is unknown,
	// already consumed, or expired.
	ErrInvalidAuthCode = errors.New("invalid authorization code")
	// ErrInvalidRedirectURI is returned when a redirect uri is not registered for
	// the client or does not match the one bound at code issuance.
	ErrInvalidRedirectURI = errors.New("invalid redirect uri")
	// ErrInvalidGrantType is returned for any grant_type other than authorization_code.
	ErrInvalidGrantType = errors.New("invalid grant type")
	// ErrInvalidScope is returned when a requested scope is not grantable.
	ErrInvalidScope = errors.New("invalid scope")
	// ErrBadRequest is returned for structurally invalid input.
	ErrBadRequest = errors.New("bad request")
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDatabase wraps repository failures. Callers see only the sentinel;
	// the underlying error is for logs.
	ErrDatabase = errors.New("database error")
	// ErrCacheUnavailable wraps remote cache tier failures.
	ErrCacheUnavailable = errors.New("cache unavailable")
	// ErrInternal is returned for invariant violations that are never the
	// caller's fault, such as a non-integer subject inside a signed token.
	ErrInternal = errors.New("internal error")
	// ErrConfig is returned by Build for invalid or unsatisfiable configuration.
	ErrConfig = errors.New("configuration error")
	// ErrEngineNotReady is returned when an Engine method is called on a nil engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// Code returns the stable machine-readable code for err, or "E000" when err
// does not map to a known failure. These codes are part of the wire contract
// and must never be renumbered.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrDatabase):
		return "E001"
	case errors.Is(err, ErrCacheUnavailable):
		return "E002"
	case errors.Is(err, ErrInvalidCredentials):
		return "E003"
	case errors.Is(err, ErrTokenExpired):
		return "E004"
	case errors.Is(err, ErrInvalidToken):
		return "E005"
	case errors.Is(err, ErrUnauthorized):
		return "E006"
	case errors.Is(err, ErrInvalidClient):
		return "E007"
	case errors.Is(err, ErrInvalidAuthCode):
		return "E008"
	case errors.Is(err, ErrInvalidRedirectURI):
		return "E009"
	case errors.Is(err, ErrInvalidGrantType):
		return "E010"
	case errors.Is(err, ErrInvalidScope):
		return "E011"
	case errors.Is(err, ErrNotFound):
		return "E012"
	case errors.Is(err, ErrBadRequest):
		return "E013"
	case errors.Is(err, ErrInternal):
		return "E014"
	case errors.Is(err, ErrConfig):
		return "E015"
	case errors.Is(err, ErrForbidden):
		return "E016"
	default:
		return "E000"
	}
}

// WireError returns the OAuth2/OIDC error string for err, suitable for the
// "error" member of an error response body.
func WireError(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidClient):
		return "invalid_client"
	case errors.Is(err, ErrInvalidAuthCode):
		return "invalid_grant"
	case errors.Is(err, ErrInvalidRedirectURI):
		return "invalid_request"
	case errors.Is(err, ErrInvalidGrantType):
		return "unsupported_grant_type"
	case errors.Is(err, ErrInvalidScope):
		return "invalid_scope"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	default:
		return "internal_error"
	}
}

// HTTPStatus maps err onto the status code the HTTP layer should respond
// with. Infrastructure failures always map to 500 so their detail is never
// leaked; the full error is for server-side logs only.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrInvalidClient),
		errors.Is(err, ErrInvalidAuthCode),
		errors.Is(err, ErrInvalidRedirectURI),
		errors.Is(err, ErrInvalidGrantType),
		errors.Is(err, ErrInvalidScope):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
