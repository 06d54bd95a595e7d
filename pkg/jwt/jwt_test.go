package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("u1", "ann@example.com", "user", "secret", time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret", AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ann@example.com", claims.Email)
}

func TestParseTokenRejects(t *testing.T) {
	access, err := GenerateToken("u1", "a@b.co", "user", "secret", time.Minute)
	require.NoError(t, err)
	refresh, err := GenerateRefreshToken("u1", "a@b.co", "user", "secret", time.Minute)
	require.NoError(t, err)
	expired, err := GenerateToken("u1", "a@b.co", "user", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(access, "other", AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(refresh, "secret", AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(expired, "secret", AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken("garbage", "secret", AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(refresh, "secret", RefreshToken)
	assert.NoError(t, err)
}
