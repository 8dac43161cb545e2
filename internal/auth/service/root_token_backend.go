// Package service implements the AuthBackend variants the HTTP layer
// authenticates bearer tokens against: the vault's single root token, and
// externally-issued JWTs.
package service

import (
	"context"
	"errors"

	authDomain "github.com/nubster-opensources/egide/internal/auth/domain"
	sealDomain "github.com/nubster-opensources/egide/internal/seal/domain"
)

// RootTokenVerifier is the slice of the seal usecase the root token
// backend needs: hash comparison against the stored root token.
type RootTokenVerifier interface {
	VerifyRootToken(ctx context.Context, token string) (bool, error)
}

// RootTokenBackend authenticates the vault's single root token, minted at
// Initialize and hashed with Argon2id by the seal manager.
type RootTokenBackend struct {
	verifier RootTokenVerifier
}

func NewRootTokenBackend(verifier RootTokenVerifier) *RootTokenBackend {
	return &RootTokenBackend{verifier: verifier}
}

var _ authDomain.AuthBackend = (*RootTokenBackend)(nil)

func (b *RootTokenBackend) Validate(ctx context.Context, token string) (authDomain.AuthContext, error) {
	if token == "" {
		return authDomain.AuthContext{}, authDomain.ErrMissingToken
	}

	ok, err := b.verifier.VerifyRootToken(ctx, token)
	if err != nil {
		if errors.Is(err, sealDomain.ErrNotInitialized) {
			return authDomain.AuthContext{}, authDomain.ErrTokenNotFound
		}
		return authDomain.AuthContext{}, err
	}
	if !ok {
		return authDomain.AuthContext{}, authDomain.ErrInvalidCredentials
	}

	return authDomain.AuthContext{AccountID: "root", Method: authDomain.MethodRoot}, nil
}
