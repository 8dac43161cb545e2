// Package usecase implements the vault's seal/unseal state machine: the
// gate every secrets and transit operation sits behind.
package usecase

import (
	"context"

	sealDomain "github.com/nubster-opensources/egide/internal/seal/domain"
)

// UseCase manages the vault's lock state and the master key it guards.
type UseCase interface {
	// Status returns the current seal status.
	Status() sealDomain.Status

	// IsDevMode reports whether the vault was brought up via EnableDevMode.
	IsDevMode() bool

	// Initialize performs first-time setup: generates a master key, splits
	// it per config, and returns the root token and shares. Returns
	// ErrAlreadyInitialized if called more than once.
	Initialize(ctx context.Context, config sealDomain.ShamirConfig) (*sealDomain.InitResult, error)

	// Unseal submits one share toward the reconstruction threshold. Once
	// enough distinct shares have been submitted, the master key is
	// reconstructed, verified, and held in memory.
	Unseal(ctx context.Context, share sealDomain.Share) (*sealDomain.UnsealProgress, error)

	// Seal clears the master key and any in-progress unseal shares from
	// memory. Returns ErrCannotSealInDevMode for a dev-mode vault.
	Seal(ctx context.Context) error

	// EnableDevMode generates a plaintext-stored single-share master key
	// and immediately unseals. Never appropriate in production.
	EnableDevMode(ctx context.Context) (*sealDomain.InitResult, error)

	// MasterKey returns the in-memory master key bytes, or false if sealed.
	// Callers must not retain the returned slice past the current request.
	MasterKey() ([]byte, bool)

	// VerifyRootToken reports whether token matches the stored root token
	// hash. Returns ErrNotInitialized if the vault has never been
	// initialized.
	VerifyRootToken(ctx context.Context, token string) (bool, error)
}
