package domain

import "context"

// AuthBackend resolves a bearer token into the identity it authenticates.
// The HTTP layer is the sole caller; engines never see a raw token.
type AuthBackend interface {
	Validate(ctx context.Context, token string) (AuthContext, error)
}
