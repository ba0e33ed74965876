package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", 15*time.Minute)

	token, err := m.GenerateAccessToken("user-1", "admin@example.com")
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "admin@example.com", claims.Email)
}

func TestAccessTokenExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)

	token, err := m.GenerateAccessToken("user-1", "admin@example.com")
	require.NoError(t, err)

	_, err = m.ParseAndValidate(token)
	require.Error(t, err)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	m := NewJWTManager("secret", 15*time.Minute)
	other := NewJWTManager("other", 15*time.Minute)

	token, err := other.GenerateAccessToken("user-1", "admin@example.com")
	require.NoError(t, err)

	_, err = m.ParseAndValidate(token)
	require.Error(t, err)
}

func TestAccessTokenRejectsForeignIssuer(t *testing.T) {
	m := NewJWTManager("secret", 15*time.Minute)

	// A token signed with the shared secret but minted for another flow
	// must not pass as a staff access token.
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":   "customer@example.com",
		"purpose": "booking",
		"exp":     time.Now().Add(5 * time.Minute).Unix(),
	})
	signed, err := foreign.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.ParseAndValidate(signed)
	require.Error(t, err)
}
