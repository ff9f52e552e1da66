package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	firebaseutil "io.wandr.triplog/internal/firebase"
)

// AuthMiddleware verifies the bearer token and sets the author's uid on the
// request context. Verified tokens are cached in Redis by hash so the
// Firebase round trip happens once per token, not per request.
func AuthMiddleware(firebaseApp *firebase.App, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with 'Bearer '"})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, bearerPrefix)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
			c.Abort()
			return
		}

		ctx := context.Background()
		sessionKey := sessionCacheKey(token)

		// Cached session first, Firebase as the source of truth
		userUID, err := redisClient.Get(ctx, sessionKey).Result()
		if err != nil || userUID == "" {
			authClient, err := firebaseutil.GetAuthClient(firebaseApp)
			if err == nil {
				if idToken, err := authClient.VerifyIDToken(ctx, token); err == nil {
					userUID = idToken.UID
					_ = redisClient.Set(ctx, sessionKey, userUID, time.Hour).Err()
				}
			}
		}

		if userUID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("uid", userUID)
		c.Next()
	}
}

// sessionCacheKey hashes the raw token so bearer tokens never appear as
// Redis keys.
func sessionCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("session:%s", hex.EncodeToString(sum[:]))
}
