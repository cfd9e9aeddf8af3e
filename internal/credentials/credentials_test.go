package credentials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHash_ProducesBcryptHash(t *testing.T) {
	hash, err := Hash("hunter2hunter2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"), "expected bcrypt prefix, got %q", hash)
	assert.NotContains(t, hash, "hunter2", "hash must not contain the plaintext")

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcryptCost, cost)
}

func TestHash_SaltsIndependently(t *testing.T) {
	first, err := Hash("same-password")
	require.NoError(t, err)
	second, err := Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "two hashes of the same password must differ")

	assert.True(t, Verify("same-password", first))
	assert.True(t, Verify("same-password", second))
}

func TestVerify_CorrectPassword(t *testing.T) {
	// Cost 4 keeps the test fast; Verify does not depend on the cost used.
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, Verify("correct horse", string(hash)))
}

func TestVerify_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.False(t, Verify("battery staple", string(hash)))
	assert.False(t, Verify("", string(hash)))
}

func TestVerify_MalformedHash(t *testing.T) {
	assert.False(t, Verify("anything", "not-a-bcrypt-hash"))
	assert.False(t, Verify("anything", ""))
}
