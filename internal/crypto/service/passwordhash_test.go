package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootTokenHasher_HashAndVerify(t *testing.T) {
	hasher, err := NewRootTokenHasher()
	require.NoError(t, err)

	token := "egide.root.s.abcdefghijklmnop"
	hashed, err := hasher.Hash(token)
	require.NoError(t, err)
	assert.NotEqual(t, token, hashed)

	t.Run("correct token verifies", func(t *testing.T) {
		assert.True(t, hasher.Verify(token, hashed))
	})

	t.Run("wrong token fails", func(t *testing.T) {
		assert.False(t, hasher.Verify("not-the-token", hashed))
	})

	t.Run("corrupt hash fails instead of erroring", func(t *testing.T) {
		assert.False(t, hasher.Verify(token, "not-a-valid-hash"))
	})
}

func TestRootTokenHasher_HashIsSalted(t *testing.T) {
	hasher, err := NewRootTokenHasher()
	require.NoError(t, err)

	token := "same-token"
	a, err := hasher.Hash(token)
	require.NoError(t, err)
	b, err := hasher.Hash(token)
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "argon2id hashes of the same input must differ due to random salt")
}
