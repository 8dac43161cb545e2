package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/nubster-opensources/egide/internal/crypto/domain"
	"github.com/nubster-opensources/egide/internal/transit/domain"
)

func TestNewTransitKey(t *testing.T) {
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		key, err := domain.NewTransitKey("my-key", cryptoDomain.AESGCM, now)

		require.NoError(t, err)
		assert.Equal(t, "my-key", key.Name)
		assert.Equal(t, uint32(1), key.LatestVersion)
		assert.Equal(t, uint32(1), key.MinEncryptionVersion)
		assert.Equal(t, uint32(1), key.MinDecryptionVersion)
		assert.True(t, key.SupportsEncryption)
		assert.True(t, key.SupportsDecryption)
		assert.False(t, key.Exportable)
		assert.False(t, key.DeletionAllowed)
	})

	t.Run("Error_InvalidName", func(t *testing.T) {
		_, err := domain.NewTransitKey("bad name!", cryptoDomain.AESGCM, now)
		assert.ErrorIs(t, err, domain.ErrInvalidKeyName)
	})

	t.Run("Error_NameTooLong", func(t *testing.T) {
		_, err := domain.NewTransitKey(strings.Repeat("a", domain.MaxKeyNameLength+1), cryptoDomain.AESGCM, now)
		assert.ErrorIs(t, err, domain.ErrInvalidKeyName)
	})

	t.Run("Error_UnsupportedAlgorithm", func(t *testing.T) {
		_, err := domain.NewTransitKey("k", cryptoDomain.Algorithm("rot13"), now)
		assert.ErrorIs(t, err, domain.ErrInvalidKeyType)
	})
}

func TestTransitKey_Validate(t *testing.T) {
	base := func() *domain.TransitKey {
		return &domain.TransitKey{
			Name:                 "k",
			Type:                 cryptoDomain.AESGCM,
			LatestVersion:        3,
			MinEncryptionVersion: 2,
			MinDecryptionVersion: 1,
		}
	}

	t.Run("Success", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("Error_MinEncryptionAboveLatest", func(t *testing.T) {
		k := base()
		k.MinEncryptionVersion = 4
		assert.ErrorIs(t, k.Validate(), domain.ErrInvalidConfig)
	})

	t.Run("Error_MinDecryptionZero", func(t *testing.T) {
		k := base()
		k.MinDecryptionVersion = 0
		assert.ErrorIs(t, k.Validate(), domain.ErrInvalidConfig)
	})

	t.Run("Error_InvalidName", func(t *testing.T) {
		k := base()
		k.Name = ""
		assert.ErrorIs(t, k.Validate(), domain.ErrInvalidKeyName)
	})
}

func TestValidKeyName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"Simple", "my-key", true},
		{"WithUnderscore", "my_key_1", true},
		{"Empty", "", false},
		{"WithSlash", "a/b", false},
		{"WithSpace", "a b", false},
		{"AtMaxLength", strings.Repeat("a", domain.MaxKeyNameLength), true},
		{"OverMaxLength", strings.Repeat("a", domain.MaxKeyNameLength+1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.ValidKeyName(tc.in))
		})
	}
}
