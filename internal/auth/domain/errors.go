package domain

import (
	"github.com/nubster-opensources/egide/internal/errors"
)

// Authentication error variants an AuthBackend's Validate may return.
var (
	// ErrInvalidCredentials indicates the token does not authenticate
	// against any backend. Returned uniformly for a malformed token, an
	// unknown JWT subject, or a wrong root token, to avoid leaking which
	// case applied.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrTokenExpired indicates the token was once valid but has expired.
	ErrTokenExpired = errors.Wrap(errors.ErrUnauthorized, "token expired")

	// ErrTokenNotFound indicates a well-formed token that matches no
	// known credential (distinct from ErrInvalidCredentials so a
	// composite backend can still try the next one).
	ErrTokenNotFound = errors.Wrap(errors.ErrUnauthorized, "token not found")

	// ErrMissingToken indicates the request carried no bearer token at all.
	ErrMissingToken = errors.Wrap(errors.ErrUnauthorized, "missing authentication token")
)
