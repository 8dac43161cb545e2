package service

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/nubster-opensources/egide/internal/crypto/domain"
)

func TestNewAESGCM(t *testing.T) {
	t.Run("valid 256-bit key", func(t *testing.T) {
		key := make([]byte, 32)
		_, err := rand.Read(key)
		require.NoError(t, err)

		cipher, err := NewAESGCM(key)
		assert.NoError(t, err)
		assert.NotNil(t, cipher)
	})

	t.Run("invalid key size", func(t *testing.T) {
		cipher, err := NewAESGCM(make([]byte, 16))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
		assert.Nil(t, cipher)
	})
}

func TestAESGCMCipher_EncryptDecrypt(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cipher, err := NewAESGCM(key)
	require.NoError(t, err)

	t.Run("round trip with AAD", func(t *testing.T) {
		plaintext := []byte("secret message")
		aad := []byte("context")

		blob, err := cipher.Encrypt(plaintext, aad)
		require.NoError(t, err)
		assert.Equal(t, cipher.NonceSize()+cryptoDomain.TagSize+len(plaintext), len(blob))

		decrypted, err := cipher.Decrypt(blob, aad)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(plaintext, decrypted))
	})

	t.Run("nonce is unique per call", func(t *testing.T) {
		plaintext := []byte("test")

		blob1, err := cipher.Encrypt(plaintext, nil)
		require.NoError(t, err)
		blob2, err := cipher.Encrypt(plaintext, nil)
		require.NoError(t, err)

		assert.NotEqual(t, blob1[:cipher.NonceSize()], blob2[:cipher.NonceSize()])
	})

	t.Run("wrong AAD fails", func(t *testing.T) {
		blob, err := cipher.Encrypt([]byte("data"), []byte("right"))
		require.NoError(t, err)

		_, err = cipher.Decrypt(blob, []byte("wrong"))
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("tampered blob fails", func(t *testing.T) {
		blob, err := cipher.Encrypt([]byte("data"), nil)
		require.NoError(t, err)

		blob[len(blob)-1] ^= 1
		_, err = cipher.Decrypt(blob, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("short blob rejected", func(t *testing.T) {
		_, err := cipher.Decrypt(make([]byte, 5), nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrCiphertextTooShort)
	})
}
