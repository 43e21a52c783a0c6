// Package random generates cryptographically secure opaque strings for
// authorization codes, client secrets, and invite codes. Generated strings
// carry no self-uniqueness guarantee; callers enforce uniqueness through
// repository unique constraints.
package random

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const (
	authCodeLength     = 32
	clientSecretLength = 48
	inviteCodeLength   = 16
)

// String returns a random alphanumeric string of length n drawn from
// crypto/rand.
func String(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)

	max := big.NewInt(int64(len(alphanumeric)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphanumeric[idx.Int64()])
	}

	return b.String(), nil
}

// AuthCode returns a 32-character authorization code.
func AuthCode() (string, error) {
	return String(authCodeLength)
}

// ClientSecret returns a 48-character client secret.
func ClientSecret() (string, error) {
	return String(clientSecretLength)
}

// InviteCode returns a 16-character invite code.
func InviteCode() (string, error) {
	return String(inviteCodeLength)
}
