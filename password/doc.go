// Package password implements the secret hasher: one-way Argon2id hashing
// with a fresh random salt embedded in a self-describing PHC-format string,
// and constant-time verification against stored hashes.
package password
