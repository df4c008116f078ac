package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndVerify(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery", hash)

	require.NoError(t, hasher.Verify(hash, "correct horse battery"))

	err = hasher.Verify(hash, "wrong password")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password mismatch")
}

func TestHasher_HashesDiffer(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash("samepassword")
	require.NoError(t, err)
	second, err := hasher.Hash("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHasher_RejectsOverlongPassword(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("a", 73))
	require.Error(t, err)
}

func TestNewHasher_CostFallback(t *testing.T) {
	hasher := NewHasher(0)
	assert.Equal(t, DefaultCost, hasher.cost)

	hasher = NewHasher(bcrypt.MinCost)
	assert.Equal(t, bcrypt.MinCost, hasher.cost)
}

func TestHasher_VerifyGarbageHash(t *testing.T) {
	hasher := NewHasher(bcrypt.MinCost)

	err := hasher.Verify("not-a-bcrypt-hash", "whatever")
	require.Error(t, err)
}
