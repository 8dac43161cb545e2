package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutSecretRequest_Validate(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		req := PutSecretRequest{Data: map[string]string{"value": "s3cr3t"}}
		assert.NoError(t, req.Validate())
	})

	t.Run("Success_WithTTL", func(t *testing.T) {
		ttl := int64(3600)
		req := PutSecretRequest{Data: map[string]string{"value": "s3cr3t"}, TTLSeconds: &ttl}
		assert.NoError(t, req.Validate())
	})

	t.Run("Error_EmptyData", func(t *testing.T) {
		req := PutSecretRequest{Data: map[string]string{}}
		assert.Error(t, req.Validate())
	})

	t.Run("Error_NonPositiveTTL", func(t *testing.T) {
		ttl := int64(0)
		req := PutSecretRequest{Data: map[string]string{"value": "s3cr3t"}, TTLSeconds: &ttl}
		assert.Error(t, req.Validate())
	})
}

func TestRollbackRequest_Validate(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		req := RollbackRequest{Version: 1}
		assert.NoError(t, req.Validate())
	})

	t.Run("Error_ZeroVersion", func(t *testing.T) {
		req := RollbackRequest{Version: 0}
		assert.Error(t, req.Validate())
	})
}
