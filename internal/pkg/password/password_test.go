package password_test

import (
	"testing"

	"statefin-backend/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := password.NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("Secret123!")
	require.NoError(t, err)

	assert.NotEqual(t, "Secret123!", hash)
	assert.True(t, h.Verify("Secret123!", hash))
	assert.False(t, h.Verify("secret123!", hash))
	assert.False(t, h.Verify("Secret123!", "not-a-hash"))
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, password.ValidatePassword("short"))
	assert.True(t, password.ValidatePassword("longenough"))
}
