// Package domain holds the cryptographic primitive types this vault is
// built on: AEAD algorithm selection, the master key, and memory hygiene
// helpers. It intentionally holds no key hierarchy beyond the master key
// itself -- working keys are derived on demand by internal/crypto/service
// and never persisted or cached (see internal/transit and internal/secrets).
package domain

import (
	"github.com/nubster-opensources/egide/internal/errors"
)

// Cryptographic operation errors.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid (must be 32 bytes).
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates decryption failed due to wrong key, tampered data, or mismatched AAD.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrCiphertextTooShort indicates a ciphertext is shorter than nonce+tag and cannot be valid.
	ErrCiphertextTooShort = errors.Wrap(errors.ErrInvalidInput, "ciphertext too short")

	// ErrInvalidDeriveLength indicates an HKDF output length outside 1..=8160.
	ErrInvalidDeriveLength = errors.Wrap(errors.ErrInvalidInput, "invalid derive length")
)
