// Package service implements the cryptographic primitives every other
// subsystem in this vault is built on: AEAD encryption, HKDF key
// derivation, CSPRNG-backed key/token generation, HMAC-based master-key
// verification, and Argon2id password hashing. Nothing in this package
// persists state; every function is a pure transform over its inputs.
package service

import (
	cryptoDomain "github.com/nubster-opensources/egide/internal/crypto/domain"
)

// AEAD is Authenticated Encryption with Associated Data: a symmetric scheme
// that authenticates both the plaintext and an optional, unencrypted
// associated-data string.
//
// Encrypt returns a single self-contained blob shaped
// nonce(12) || ciphertext(len(plaintext)) || tag(16); Decrypt accepts that
// same shape. Callers never handle the nonce separately — it travels with
// the ciphertext, as it must to be useful at decrypt time.
type AEAD interface {
	// Encrypt seals plaintext with a fresh random nonce, authenticating aad
	// without encrypting it.
	Encrypt(plaintext, aad []byte) (blob []byte, err error)

	// Decrypt opens a blob produced by Encrypt. Returns ErrCiphertextTooShort
	// if the blob is shorter than nonce plus tag, and ErrDecryptionFailed if
	// the tag doesn't verify or aad doesn't match what was used at
	// encryption time.
	Decrypt(blob, aad []byte) (plaintext []byte, err error)
}

// AEADManager is a factory for AEAD cipher instances keyed by algorithm.
type AEADManager interface {
	// CreateCipher returns an AEAD cipher for the given 32-byte key and
	// algorithm. Returns ErrInvalidKeySize or ErrUnsupportedAlgorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}
