// Package dto provides data transfer objects for transit engine HTTP handlers.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/nubster-opensources/egide/internal/validation"
)

// CreateKeyRequest is the body of POST /v1/transit/keys/:name.
type CreateKeyRequest struct {
	Type string `json:"type"`
}

// Validate checks the request's fields. An empty Type leaves the key's
// algorithm at its default.
func (r *CreateKeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Type,
			validation.When(r.Type != "", validation.In("aes-gcm", "chacha20-poly1305")),
		),
	)
}

// UpdateKeyConfigRequest is the body of PUT /v1/transit/keys/:name/config.
type UpdateKeyConfigRequest struct {
	MinEncryptionVersion *uint32 `json:"min_encryption_version,omitempty"`
	MinDecryptionVersion *uint32 `json:"min_decryption_version,omitempty"`
	DeletionAllowed      *bool   `json:"deletion_allowed,omitempty"`
}

// EncryptRequest is the body of POST /v1/transit/encrypt/:name.
type EncryptRequest struct {
	Plaintext string `json:"plaintext"` // base64-encoded
}

// Validate checks the request's fields.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
	)
}

// CiphertextRequest is the body of decrypt/rewrap requests.
type CiphertextRequest struct {
	Ciphertext string `json:"ciphertext"`
}

// Validate checks the request's fields.
func (r *CiphertextRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext, validation.Required, customValidation.NotBlank),
	)
}
