package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashIsNotPlaintext(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
}

func TestHashUsesFreshSalt(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash("secret")
	require.NoError(t, err)
	second, err := h.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyRoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("secret")
	require.NoError(t, err)

	ok, err := h.Verify("secret", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyMalformedHashIsError(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	ok, err := h.Verify("secret", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewHasherClampsCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, bcrypt.MinCost, NewHasher(bcrypt.MinCost).Cost())
}
