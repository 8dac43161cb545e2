package service

import (
	"fmt"

	"github.com/allisson/go-pwdhash"
)

// RootTokenHasher hashes and verifies root tokens with Argon2id, so the
// plaintext token is never persisted -- only its hash is written to the
// seal configuration.
type RootTokenHasher struct {
	hasher *pwdhash.PasswordHasher
}

// NewRootTokenHasher builds a RootTokenHasher using Argon2id's moderate
// policy, a balance between unseal-time cost and interactive responsiveness.
func NewRootTokenHasher() (*RootTokenHasher, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		return nil, fmt.Errorf("failed to create root token hasher: %w", err)
	}
	return &RootTokenHasher{hasher: hasher}, nil
}

// Hash returns the Argon2id encoded hash of token.
func (h *RootTokenHasher) Hash(token string) (string, error) {
	hashed, err := h.hasher.Hash([]byte(token))
	if err != nil {
		return "", fmt.Errorf("failed to hash root token: %w", err)
	}
	return hashed, nil
}

// Verify reports whether token matches hashed. A hashing error is treated
// as a non-match rather than propagated, so callers never need to
// distinguish "wrong token" from "corrupt hash" -- both deny access.
func (h *RootTokenHasher) Verify(token, hashed string) bool {
	ok, err := h.hasher.Verify([]byte(token), hashed)
	if err != nil {
		return false
	}
	return ok
}
