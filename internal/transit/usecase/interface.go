// Package usecase implements the transit engine: named, versioned AEAD keys
// that let callers encrypt and decrypt without ever seeing key material.
package usecase

import (
	"context"

	cryptoDomain "github.com/nubster-opensources/egide/internal/crypto/domain"
	transitDomain "github.com/nubster-opensources/egide/internal/transit/domain"
)

// KeyRepository persists transit key metadata and their wrapped key versions.
type KeyRepository interface {
	CreateKey(ctx context.Context, key *transitDomain.TransitKey, version *transitDomain.TransitKeyVersion) error
	GetKey(ctx context.Context, name string) (*transitDomain.TransitKey, error)
	ListKeys(ctx context.Context) ([]string, error)
	UpdateKey(ctx context.Context, key *transitDomain.TransitKey) error
	AddVersion(ctx context.Context, key *transitDomain.TransitKey, version *transitDomain.TransitKeyVersion) error
	GetVersion(ctx context.Context, name string, version uint32) (*transitDomain.TransitKeyVersion, error)
	ListVersions(ctx context.Context, name string) ([]*transitDomain.TransitKeyVersion, error)
	DeleteKey(ctx context.Context, name string) error
}

// KeyConfigUpdate carries a partial update to a key's configuration; nil
// fields are left unchanged.
type KeyConfigUpdate struct {
	MinEncryptionVersion *uint32
	MinDecryptionVersion *uint32
	DeletionAllowed      *bool
}

// UseCase implements encryption-as-a-service: applications submit plaintext
// or ciphertext and a key name, never the key material itself.
type UseCase interface {
	// CreateKey generates version 1 of a new named key.
	CreateKey(ctx context.Context, name string, alg cryptoDomain.Algorithm) (*transitDomain.TransitKey, error)

	// GetKey returns a key's metadata.
	GetKey(ctx context.Context, name string) (*transitDomain.TransitKey, error)

	// ListKeys returns every key name.
	ListKeys(ctx context.Context) ([]string, error)

	// ListVersions returns a key's versions, descending.
	ListVersions(ctx context.Context, name string) ([]*transitDomain.TransitKeyVersion, error)

	// RotateKey creates version latest+1 with fresh random material.
	RotateKey(ctx context.Context, name string) (uint32, error)

	// DeleteKey removes a key and all its versions. Fails unless the key's
	// deletion_allowed bit is set.
	DeleteKey(ctx context.Context, name string) error

	// UpdateKeyConfig applies a partial configuration update.
	UpdateKeyConfig(ctx context.Context, name string, update KeyConfigUpdate) (*transitDomain.TransitKey, error)

	// Encrypt encrypts plaintext under the key's latest version.
	Encrypt(ctx context.Context, name string, plaintext []byte) (string, error)

	// EncryptWithVersion encrypts plaintext under a specific version.
	EncryptWithVersion(ctx context.Context, name string, plaintext []byte, version uint32) (string, error)

	// Decrypt decrypts a ciphertext envelope, using the version it names.
	Decrypt(ctx context.Context, name string, ciphertext string) ([]byte, error)

	// Rewrap re-encrypts a ciphertext under the key's latest version
	// without the plaintext ever leaving the engine. Returns the input
	// unchanged if it is already at the latest version.
	Rewrap(ctx context.Context, name string, ciphertext string) (string, error)

	// GenerateDataKey returns a fresh 32-byte plaintext key and its wrapped
	// form for envelope encryption. Callers must destroy Plaintext after use.
	GenerateDataKey(ctx context.Context, name string) (*transitDomain.DataKey, error)

	// DecryptDataKey unwraps a data key's ciphertext. Thin wrapper over Decrypt.
	DecryptDataKey(ctx context.Context, name string, ciphertext string) ([]byte, error)
}
