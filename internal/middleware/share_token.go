package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ShareTokenMiddleware authenticates public read-only routes with a signed
// share token carried in the "token" query parameter. On success the shared
// diary owner's uid is set as "share_uid" on the context.
func ShareTokenMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Share token is required"})
			c.Abort()
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired share token"})
			c.Abort()
			return
		}

		uid, _ := claims["uid"].(string)
		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid share token"})
			c.Abort()
			return
		}

		c.Set("share_uid", uid)
		c.Next()
	}
}
