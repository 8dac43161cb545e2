// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	secretsDomain "github.com/nubster-opensources/egide/internal/secrets/domain"
)

// SecretMetadataResponse describes a path's current state without its data.
type SecretMetadataResponse struct {
	Path      string    `json:"path"`
	Version   uint32    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Deleted   bool      `json:"deleted"`
}

// ListSecretsResponse represents a list of secret metadata in API responses.
type ListSecretsResponse struct {
	Data []SecretMetadataResponse `json:"data"`
}

// MapSecretsToListResponse converts a slice of domain secret metadata to a
// list response.
func MapSecretsToListResponse(secrets []secretsDomain.Metadata) ListSecretsResponse {
	data := make([]SecretMetadataResponse, 0, len(secrets))
	for _, s := range secrets {
		data = append(data, SecretMetadataResponse{
			Path:      s.Path,
			Version:   s.Version,
			CreatedAt: s.CreatedAt,
			UpdatedAt: s.UpdatedAt,
			Deleted:   s.Deleted,
		})
	}

	return ListSecretsResponse{
		Data: data,
	}
}
