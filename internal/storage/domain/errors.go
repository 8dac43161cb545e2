package domain

import "github.com/nubster-opensources/egide/internal/errors"

// Storage-layer errors.
var (
	// ErrInvalidTenant indicates a tenant identifier fails validation.
	ErrInvalidTenant = errors.Wrap(errors.ErrInvalidInput, "invalid tenant")

	// ErrConnectionFailed indicates the backend could not be opened.
	ErrConnectionFailed = errors.New("storage connection failed")

	// ErrQueryFailed indicates a read or write against the backend failed.
	ErrQueryFailed = errors.New("storage query failed")
)
