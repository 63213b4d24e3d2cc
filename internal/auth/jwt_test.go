package auth

import (
	"testing"
	"time"

	"cmt-tasks/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() models.User {
	shopID := uint(3)
	u := models.User{
		Username: "jdoe",
		Email:    "jdoe@cmt.local",
		FullName: "Jane Doe",
		Role:     models.RoleEngineer,
		ShopID:   &shopID,
	}
	u.ID = 42
	return u
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testUser(), "secret", "cmt-tasks")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, "secret", "cmt-tasks")
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID())
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, "jdoe@cmt.local", claims.Email)
	assert.Equal(t, "Jane Doe", claims.FullName)
	assert.Equal(t, models.RoleEngineer, claims.Role)
	require.NotNil(t, claims.ShopID)
	assert.Equal(t, uint(3), *claims.ShopID)
	assert.Equal(t, "cmt-tasks", claims.Issuer)

	// 7-day expiry window
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, TokenTTL, ttl)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testUser(), "secret", "cmt-tasks")
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret", "cmt-tasks")
	assert.Error(t, err)
}

func TestParseTokenWrongIssuer(t *testing.T) {
	token, err := GenerateToken(testUser(), "secret", "someone-else")
	require.NoError(t, err)

	_, err = ParseToken(token, "secret", "cmt-tasks")
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	claims := Claims{
		Username: "jdoe",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseToken(token, "secret", "cmt-tasks")
	assert.Error(t, err)
}

func TestParseTokenRejectsUnsignedAlg(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "42"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret", "cmt-tasks")
	assert.Error(t, err)
}

func TestUserIDMalformedSubject(t *testing.T) {
	c := Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-number"}}
	assert.Equal(t, uint(0), c.UserID())
}
