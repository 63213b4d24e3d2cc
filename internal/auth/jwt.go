package auth

import (
	"errors"
	"strconv"
	"time"

	"cmt-tasks/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL matches the client's 7-day session window.
const TokenTTL = 7 * 24 * time.Hour

// Claims is the signed identity carried by every bearer token.
type Claims struct {
	Username string          `json:"username"`
	Email    string          `json:"email"`
	FullName string          `json:"full_name"`
	Role     models.UserRole `json:"role"`
	ShopID   *uint           `json:"shop_id,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject claim as a user id, 0 if malformed.
func (c *Claims) UserID() uint {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func GenerateToken(user models.User, secret, issuer string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
		ShopID:   user.ShopID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(tokenString, secret, issuer string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
