// Package domain defines the core domain models and errors for the
// key/value secrets engine.
package domain

import (
	"github.com/nubster-opensources/egide/internal/errors"
)

// Secret-specific error definitions, grounded on the engine's original
// error surface.
var (
	// ErrSecretNotFound indicates no secret exists at the given path.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrVersionNotFound indicates the path exists but not at that version.
	ErrVersionNotFound = errors.Wrap(errors.ErrNotFound, "secret version not found")

	// ErrExpired indicates the secret's TTL has elapsed.
	ErrExpired = errors.Wrap(errors.ErrNotFound, "secret has expired")

	// ErrDeleted indicates the secret is soft-deleted and must be restored
	// with Undelete before its current version can be read or it can be
	// written again. Reading a specific version (GetVersion) still works.
	ErrDeleted = errors.Wrap(errors.ErrConflict, "secret is deleted")

	// ErrNotDeleted indicates Undelete was called on a secret that isn't
	// currently soft-deleted.
	ErrNotDeleted = errors.Wrap(errors.ErrInvalidInput, "secret is not deleted")

	// ErrVersionMismatch indicates a check-and-set Put failed because the
	// caller's expected version didn't match the stored one.
	ErrVersionMismatch = errors.Wrap(errors.ErrConflict, "version mismatch")

	// ErrInvalidPath indicates the path failed structural validation.
	ErrInvalidPath = errors.Wrap(errors.ErrInvalidInput, "invalid secret path")

	// ErrDecryptionFailed indicates a stored version's ciphertext could not
	// be authenticated, e.g. after a master key change.
	ErrDecryptionFailed = errors.New("failed to decrypt secret")
)
