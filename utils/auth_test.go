package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rozzgari-server/config"
)

func setupTestConfig() {
	config.AppConfig = &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			ExpiryHours: 1,
		},
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
	assert.False(t, CheckPasswordHash("secret123", "not-a-hash"))
}

func TestTokenRoundTrip(t *testing.T) {
	setupTestConfig()

	token, err := GenerateToken(42, "worker")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "worker", claims.UserType)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	setupTestConfig()

	_, err := VerifyToken("not.a.token")
	assert.Error(t, err)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	setupTestConfig()

	token, err := GenerateToken(42, "worker")
	assert.NoError(t, err)

	config.AppConfig.JWT.Secret = "a-different-secret"
	_, err = VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	setupTestConfig()
	config.AppConfig.JWT.ExpiryHours = -1

	token, err := GenerateToken(42, "worker")
	assert.NoError(t, err)

	_, err = VerifyToken(token)
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	setupTestConfig()

	token, err := GenerateRefreshToken(7, "customer")
	assert.NoError(t, err)

	claims, err := VerifyToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "customer", claims.UserType)
}
