// Package http provides HTTP middleware for authenticating vault requests.
package http

import (
	"context"

	authDomain "github.com/nubster-opensources/egide/internal/auth/domain"
)

type authContextKey struct{}

// WithAuthContext stores a validated AuthContext in ctx. Called by the
// authentication middleware after a successful Validate.
func WithAuthContext(ctx context.Context, authCtx authDomain.AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey{}, authCtx)
}

// GetAuthContext retrieves the AuthContext the middleware attached to ctx.
func GetAuthContext(ctx context.Context) (authDomain.AuthContext, bool) {
	authCtx, ok := ctx.Value(authContextKey{}).(authDomain.AuthContext)
	return authCtx, ok
}
