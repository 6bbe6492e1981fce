package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("member123", "pat@example.com", "owner", "CASA42", "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "member123", claims.MemberID)
	assert.Equal(t, "pat@example.com", claims.Email)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, "CASA42", claims.HouseholdID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("member123", "pat@example.com", "member", "", "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("member123", "pat@example.com", "member", "", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token", "secret")
	assert.Error(t, err)
}
