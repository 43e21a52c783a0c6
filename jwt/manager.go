package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired is returned by Verify when the token's expiry has elapsed.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid is returned by Verify for every other defect: bad
// signature, wrong algorithm, truncated payload, non-integer subject. The
// cases are never distinguished to avoid giving attackers an oracle.
var ErrTokenInvalid = errors.New("invalid token")

const minSecretBytes = 32

// Claims is the decoded payload of an access or refresh token: subject
// (user id), expiry, issued-at, an optional ordered scope list, and the
// user's role at issuance time.
type Claims struct {
	Scope []string `json:"scope,omitempty"`
	Role  string   `json:"role"`
	jwt.RegisteredClaims
}

// Config carries the shared signing secret.
type Config struct {
	Secret []byte
}

// Manager issues and verifies signed claim bundles. A Manager is immutable
// after construction and safe for concurrent use.
type Manager struct {
	secret []byte
}

// NewManager validates the secret and returns a codec. Secrets shorter than
// 32 bytes are rejected; HS256 with a weak secret is not a configuration
// this package will sign with.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < minSecretBytes {
		return nil, errors.New("jwt secret must be at least 32 bytes")
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	return &Manager{secret: secret}, nil
}

// Issue signs a claim bundle for subject with issued-at now and expiry
// now+ttl. No ttl ceiling or floor is enforced here; policy lives with the
// caller, and tests rely on being able to issue already-expired tokens.
func (m *Manager) Issue(subject int64, ttl time.Duration, scope []string, role string) (string, error) {
	now := time.Now()

	claims := Claims{
		Scope: scope,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subject, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature and expiry and returns the decoded claims.
// An elapsed expiry fails with [ErrTokenExpired]; everything else fails with
// [ErrTokenInvalid].
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// SubjectID verifies the token and parses its subject as an integer user id.
// A non-integer subject fails with [ErrTokenInvalid].
func (m *Manager) SubjectID(tokenStr string) (int64, error) {
	claims, err := m.Verify(tokenStr)
	if err != nil {
		return 0, err
	}
	return SubjectID(claims)
}

// SubjectID parses the subject of already-verified claims as an integer id.
func SubjectID(claims *Claims) (int64, error) {
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return id, nil
}

// IDTokenClaims is the payload of an OIDC ID token.
type IDTokenClaims struct {
	Issuer        string
	Subject       int64
	Audience      string
	TTL           time.Duration
	Name          string
	Email         string
	EmailVerified bool
}

// IssueIDToken signs an OIDC ID token with the same shared secret the
// access-token path uses. Time claims are whole-second epoch integers.
func (m *Manager) IssueIDToken(c IDTokenClaims) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"iss":            c.Issuer,
		"sub":            strconv.FormatInt(c.Subject, 10),
		"aud":            c.Audience,
		"exp":            now.Add(c.TTL).Unix(),
		"iat":            now.Unix(),
		"name":           c.Name,
		"email":          c.Email,
		"email_verified": c.EmailVerified,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}
