package domain

import "github.com/nubster-opensources/egide/internal/errors"

// Seal lifecycle errors.
var (
	// ErrAlreadyInitialized indicates Initialize or EnableDevMode was
	// called on a vault that is already initialized.
	ErrAlreadyInitialized = errors.Wrap(errors.ErrConflict, "vault already initialized")

	// ErrNotInitialized indicates an operation that requires
	// initialization was attempted first.
	ErrNotInitialized = errors.Wrap(errors.ErrInvalidInput, "vault not initialized")

	// ErrAlreadyUnsealed indicates a share was submitted to an
	// already-unsealed vault.
	ErrAlreadyUnsealed = errors.Wrap(errors.ErrConflict, "vault already unsealed")

	// ErrSealed indicates an operation that requires the master key was
	// attempted while the vault is sealed.
	ErrSealed = errors.Wrap(errors.ErrInvalidInput, "vault is sealed")

	// ErrInvalidConfig indicates the Shamir configuration fails validation.
	ErrInvalidConfig = errors.Wrap(errors.ErrInvalidInput, "invalid shamir configuration")

	// ErrDuplicateShare indicates the same share index was submitted twice
	// during one unseal attempt.
	ErrDuplicateShare = errors.Wrap(errors.ErrInvalidInput, "duplicate share")

	// ErrInvalidShare indicates a share could not be parsed.
	ErrInvalidShare = errors.Wrap(errors.ErrInvalidInput, "invalid share")

	// ErrReconstructionFailed indicates the submitted shares did not
	// recombine into a verifiably correct master key.
	ErrReconstructionFailed = errors.Wrap(errors.ErrInvalidInput, "key reconstruction failed")

	// ErrCannotSealInDevMode indicates Seal was called while dev mode is
	// active; dev mode vaults auto-unseal and are never meant to lock.
	ErrCannotSealInDevMode = errors.Wrap(errors.ErrInvalidInput, "cannot seal a dev-mode vault")

	// ErrInvalidRootToken indicates VerifyRootToken failed the comparison.
	ErrInvalidRootToken = errors.Wrap(errors.ErrUnauthorized, "invalid root token")
)
