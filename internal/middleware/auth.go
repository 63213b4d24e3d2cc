package middleware

import (
	"net/http"
	"strings"

	"cmt-tasks/internal/auth"
	"cmt-tasks/internal/models"
	"cmt-tasks/internal/policy"

	"github.com/gin-gonic/gin"
)

const callerKey = "Caller"

func RequireAuth(secret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1], secret, issuer)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(callerKey, policy.Caller{
			ID:       claims.UserID(),
			FullName: claims.FullName,
			Role:     claims.Role,
			ShopID:   claims.ShopID,
		})
		c.Next()
	}
}

func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		if _, ok := roleSet[caller.Role]; !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CallerFrom returns the identity set by RequireAuth.
func CallerFrom(c *gin.Context) (policy.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return policy.Caller{}, false
	}
	caller, ok := v.(policy.Caller)
	return caller, ok
}
