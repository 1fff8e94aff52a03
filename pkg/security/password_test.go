package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("Secret1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret1!", hash)

	assert.NoError(t, hasher.Compare(hash, "Secret1!"))
	assert.Error(t, hasher.Compare(hash, "wrong"))

	_, err = hasher.Hash("")
	assert.Error(t, err)
}

func TestBcryptVerifier(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	verifier := NewBcryptVerifier()

	t.Run("hash derived from the username accepts it", func(t *testing.T) {
		hash, err := hasher.Hash("alice")
		require.NoError(t, err)
		assert.True(t, verifier.Verify("alice", hash))
	})

	t.Run("unrelated hash rejects the username", func(t *testing.T) {
		hash, err := hasher.Hash("Secret1!")
		require.NoError(t, err)
		assert.False(t, verifier.Verify("alice", hash))
	})

	t.Run("garbage hash never verifies", func(t *testing.T) {
		assert.False(t, verifier.Verify("alice", "not-a-bcrypt-hash"))
	})
}
