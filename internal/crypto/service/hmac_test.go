package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealVerificationTag_Deterministic(t *testing.T) {
	masterKey, err := RandomBytes(32)
	require.NoError(t, err)

	tag1, err := SealVerificationTag(masterKey)
	require.NoError(t, err)
	tag2, err := SealVerificationTag(masterKey)
	require.NoError(t, err)

	assert.Equal(t, tag1, tag2)
}

func TestVerifySealTag(t *testing.T) {
	masterKey, err := RandomBytes(32)
	require.NoError(t, err)

	tag, err := SealVerificationTag(masterKey)
	require.NoError(t, err)

	t.Run("valid tag for correct key", func(t *testing.T) {
		ok, err := VerifySealTag(masterKey, tag)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong key fails", func(t *testing.T) {
		wrongKey, err := RandomBytes(32)
		require.NoError(t, err)

		ok, err := VerifySealTag(wrongKey, tag)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("tampered tag fails", func(t *testing.T) {
		tampered := append([]byte(nil), tag...)
		tampered[0] ^= 0xFF

		ok, err := VerifySealTag(masterKey, tampered)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
