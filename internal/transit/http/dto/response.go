package dto

import (
	"time"

	transitDomain "github.com/nubster-opensources/egide/internal/transit/domain"
)

// TransitKeyResponse is the JSON representation of a transit key's metadata.
type TransitKeyResponse struct {
	Name                 string    `json:"name"`
	Type                 string    `json:"type"`
	LatestVersion        uint32    `json:"latest_version"`
	MinEncryptionVersion uint32    `json:"min_encryption_version"`
	MinDecryptionVersion uint32    `json:"min_decryption_version"`
	SupportsEncryption   bool      `json:"supports_encryption"`
	SupportsDecryption   bool      `json:"supports_decryption"`
	SupportsDerivation   bool      `json:"supports_derivation"`
	Exportable           bool      `json:"exportable"`
	DeletionAllowed      bool      `json:"deletion_allowed"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// MapTransitKeyToResponse converts a domain TransitKey to its wire form.
func MapTransitKeyToResponse(key *transitDomain.TransitKey) TransitKeyResponse {
	return TransitKeyResponse{
		Name:                 key.Name,
		Type:                 string(key.Type),
		LatestVersion:        key.LatestVersion,
		MinEncryptionVersion: key.MinEncryptionVersion,
		MinDecryptionVersion: key.MinDecryptionVersion,
		SupportsEncryption:   key.SupportsEncryption,
		SupportsDecryption:   key.SupportsDecryption,
		SupportsDerivation:   key.SupportsDerivation,
		Exportable:           key.Exportable,
		DeletionAllowed:      key.DeletionAllowed,
		CreatedAt:            key.CreatedAt,
		UpdatedAt:            key.UpdatedAt,
	}
}

// ListKeysResponse is the JSON body of GET /v1/transit/keys.
type ListKeysResponse struct {
	Keys []string `json:"keys"`
}

// RotateKeyResponse is the JSON body of POST /v1/transit/keys/:name/rotate.
type RotateKeyResponse struct {
	Version uint32 `json:"version"`
}

// CiphertextResponse carries an envelope ciphertext.
type CiphertextResponse struct {
	Ciphertext string `json:"ciphertext"`
}

// PlaintextResponse carries a base64-encoded plaintext.
type PlaintextResponse struct {
	Plaintext string `json:"plaintext"`
}

// DataKeyResponse is the JSON body of POST /v1/transit/datakey/:name.
type DataKeyResponse struct {
	Plaintext  string `json:"plaintext"`
	Ciphertext string `json:"ciphertext"`
}
