package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", "corpus-rag-api")

	token, err := m.GenerateToken("admin", "admin", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "corpus-rag-api", claims.Issuer)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", "iss").GenerateToken("admin", "admin", time.Hour)
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", "iss").ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", "iss")

	token, err := m.GenerateToken("admin", "admin", -time.Minute)
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_GarbageToken(t *testing.T) {
	m := NewJWTManager("test-secret", "iss")

	_, err := m.ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
