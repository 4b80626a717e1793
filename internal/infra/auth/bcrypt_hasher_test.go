package auth

import (
	"testing"

	"ministry/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost}})

	hash, err := hasher.Hash("Hallelujah123!")
	require.NoError(t, err)
	assert.NotEqual(t, "Hallelujah123!", hash)

	assert.True(t, hasher.Check("Hallelujah123!", hash))
	assert.False(t, hasher.Check("wrong-password", hash))
	assert.False(t, hasher.Check("Hallelujah123!", "not-a-hash"))
}

func TestBcryptHasher_UsesConfiguredCost(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: 5}})

	hash, err := hasher.Hash("secret-password")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestBcryptHasher_InvalidCostFallsBack(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: 99}})

	assert.Equal(t, bcrypt.DefaultCost, hasher.(*bcryptHasher).cost)
}
