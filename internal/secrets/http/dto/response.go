// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/json"
	"time"

	secretsDomain "github.com/nubster-opensources/egide/internal/secrets/domain"
)

// SecretResponse represents a decrypted secret in API responses.
// SECURITY: Data holds plaintext key/value pairs and must only ever be sent
// over an authenticated, encrypted transport.
type SecretResponse struct {
	Path      string            `json:"path"`
	Data      map[string]string `json:"data,omitempty"`
	Version   uint32            `json:"version"`
	Metadata  json.RawMessage   `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
}

// MapSecretToResponse converts a domain secret to its API representation,
// including its decrypted data.
func MapSecretToResponse(secret *secretsDomain.Secret) SecretResponse {
	return SecretResponse{
		Path:      secret.Path,
		Data:      secret.Data,
		Version:   secret.Version,
		Metadata:  secret.Metadata,
		CreatedAt: secret.CreatedAt,
		ExpiresAt: secret.ExpiresAt,
	}
}

// VersionInfoResponse describes one stored version without its data.
type VersionInfoResponse struct {
	Version   uint32     `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedBy string     `json:"created_by,omitempty"`
	Expired   bool       `json:"expired"`
}

// MapVersionsToResponse converts domain version info to its API representation.
func MapVersionsToResponse(versions []secretsDomain.VersionInfo) []VersionInfoResponse {
	out := make([]VersionInfoResponse, 0, len(versions))
	for _, v := range versions {
		out = append(out, VersionInfoResponse{
			Version:   v.Version,
			CreatedAt: v.CreatedAt,
			ExpiresAt: v.ExpiresAt,
			CreatedBy: v.CreatedBy,
			Expired:   v.Expired,
		})
	}
	return out
}
