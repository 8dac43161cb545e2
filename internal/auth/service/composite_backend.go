package service

import (
	"context"
	"errors"

	authDomain "github.com/nubster-opensources/egide/internal/auth/domain"
)

// CompositeBackend tries each backend in order. It short-circuits on
// ErrTokenExpired: an expired JWT must not fall through and be retried
// against the root token backend as if it were a different kind of
// credential.
type CompositeBackend struct {
	backends []authDomain.AuthBackend
}

func NewCompositeBackend(backends ...authDomain.AuthBackend) *CompositeBackend {
	return &CompositeBackend{backends: backends}
}

var _ authDomain.AuthBackend = (*CompositeBackend)(nil)

func (c *CompositeBackend) Validate(ctx context.Context, token string) (authDomain.AuthContext, error) {
	var lastErr error = authDomain.ErrInvalidCredentials
	for _, backend := range c.backends {
		authCtx, err := backend.Validate(ctx, token)
		if err == nil {
			return authCtx, nil
		}
		if errors.Is(err, authDomain.ErrMissingToken) || errors.Is(err, authDomain.ErrTokenExpired) {
			return authDomain.AuthContext{}, err
		}
		lastErr = err
	}
	return authDomain.AuthContext{}, lastErr
}
