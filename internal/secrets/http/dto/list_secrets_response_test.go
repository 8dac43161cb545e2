package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	secretsDomain "github.com/nubster-opensources/egide/internal/secrets/domain"
	"github.com/nubster-opensources/egide/internal/secrets/http/dto"
)

func TestMapSecretsToListResponse(t *testing.T) {
	now := time.Now().UTC()
	secrets := []secretsDomain.Metadata{
		{Path: "test/1", Version: 1, CreatedAt: now, UpdatedAt: now},
		{Path: "test/2", Version: 2, CreatedAt: now, UpdatedAt: now, Deleted: true},
	}

	response := dto.MapSecretsToListResponse(secrets)

	assert.Len(t, response.Data, 2)
	assert.Equal(t, "test/1", response.Data[0].Path)
	assert.Equal(t, uint32(1), response.Data[0].Version)
	assert.False(t, response.Data[0].Deleted)

	assert.Equal(t, "test/2", response.Data[1].Path)
	assert.Equal(t, uint32(2), response.Data[1].Version)
	assert.True(t, response.Data[1].Deleted)
}
