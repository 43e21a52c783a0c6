// Package jwt implements the token codec: issuance and verification of
// signed, time-bounded claim bundles (access/refresh tokens and OIDC ID
// tokens), all HS256 over one shared secret.
//
// Verification is fail-closed and deliberately coarse: an elapsed expiry
// surfaces as [ErrTokenExpired], every other decode or signature problem as
// [ErrTokenInvalid]. The codec never tells a caller whether a token was
// malformed or forged.
package jwt
