package domain

import (
	"fmt"
	"time"

	cryptoDomain "github.com/nubster-opensources/egide/internal/crypto/domain"
)

// TransitKey is a named, versioned AEAD key. The active version
// (LatestVersion) is used for encryption; any version at or above
// MinDecryptionVersion remains available for decryption. Deletion is
// disallowed unless DeletionAllowed was explicitly enabled.
type TransitKey struct {
	Name                 string
	Type                 cryptoDomain.Algorithm
	LatestVersion        uint32
	MinEncryptionVersion uint32
	MinDecryptionVersion uint32
	SupportsEncryption   bool
	SupportsDecryption   bool
	SupportsDerivation   bool
	Exportable           bool
	DeletionAllowed      bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewTransitKey builds the metadata row for a freshly created key, version 1,
// with the default capability set: encryption and decryption enabled,
// derivation disabled, not exportable, deletion disallowed.
func NewTransitKey(name string, alg cryptoDomain.Algorithm, now time.Time) (*TransitKey, error) {
	if !ValidKeyName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKeyName, name)
	}
	if alg != cryptoDomain.AESGCM && alg != cryptoDomain.ChaCha20 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKeyType, alg)
	}
	return &TransitKey{
		Name:                 name,
		Type:                 alg,
		LatestVersion:        1,
		MinEncryptionVersion: 1,
		MinDecryptionVersion: 1,
		SupportsEncryption:   true,
		SupportsDecryption:   true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// Validate checks the key's invariants: the two min-version fields must sit
// between 1 and LatestVersion inclusive.
func (k *TransitKey) Validate() error {
	if !ValidKeyName(k.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidKeyName, k.Name)
	}
	if k.LatestVersion < 1 {
		return fmt.Errorf("%w: latest_version must be at least 1", ErrInvalidConfig)
	}
	if k.MinEncryptionVersion < 1 || k.MinEncryptionVersion > k.LatestVersion {
		return fmt.Errorf("%w: min_encryption_version out of range", ErrInvalidConfig)
	}
	if k.MinDecryptionVersion < 1 || k.MinDecryptionVersion > k.LatestVersion {
		return fmt.Errorf("%w: min_decryption_version out of range", ErrInvalidConfig)
	}
	return nil
}

// TransitKeyVersion holds one version's wrapped key material. The raw key is
// never stored: WrappedKey is the AEAD ciphertext of the random per-version
// key, encrypted under a key derived from the vault master key.
type TransitKeyVersion struct {
	Name       string
	Version    uint32
	WrappedKey []byte
	CreatedAt  time.Time
}
