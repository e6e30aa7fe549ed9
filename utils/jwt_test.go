package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestParseTokenBearerPrefix(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateToken("user-123")
	require.NoError(t, err)

	claims, err := ParseToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	InitJWT("secret-a")
	token, err := GenerateToken("user-123")
	require.NoError(t, err)

	InitJWT("secret-b")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	InitJWT("test-secret")

	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}
