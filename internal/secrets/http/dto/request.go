// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/json"

	validation "github.com/jellydator/validation"
)

// PutSecretRequest is the body of POST/PUT /v1/secrets/*path.
// The path itself is extracted from the URL, not the body.
type PutSecretRequest struct {
	Data map[string]string `json:"data"`
	// TTLSeconds, if set and positive, expires the new version after this
	// many seconds.
	TTLSeconds *int64 `json:"ttl_seconds,omitempty"`
	// Metadata is stored alongside the version as opaque JSON.
	Metadata json.RawMessage `json:"metadata,omitempty"`
	// CAS, if set, requires the path's current version to equal this value.
	CAS *uint32 `json:"cas,omitempty"`
}

// Validate checks the put request's fields.
func (r *PutSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Data, validation.Required),
		validation.Field(&r.TTLSeconds,
			validation.When(r.TTLSeconds != nil, validation.Min(int64(1))),
		),
	)
}

// RollbackRequest is the body of POST /v1/secrets/*path/rollback.
type RollbackRequest struct {
	Version uint32 `json:"version"`
}

// Validate checks the rollback request's fields.
func (r *RollbackRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Version, validation.Required),
	)
}
