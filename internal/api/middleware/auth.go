package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ideosphere/ideosphere/pkg/response"
)

const userIDKey = "auth.userID"

// Auth parses an optional Bearer token and stores the subject in the
// context. Invalid tokens are ignored here; RequireAuth enforces them.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			if sub := parseSubject(token, key); sub != "" {
				c.Set(userIDKey, sub)
			}
		}
		c.Next()
	}
}

// RequireAuth aborts with 401 unless Auth resolved a subject.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func parseSubject(token string, key []byte) string {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return key, nil
	})
	if err != nil || !parsed.Valid {
		return ""
	}
	return claims.Subject
}
