package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	usermodels "io.wandr.triplog/internal/models/account"
)

// GetAccountDetails returns the authenticated author's profile
func (h *AuthHandler) GetAccountDetails(c *gin.Context) {
	userUID := c.GetString("uid")
	if userUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx := context.Background()
	cacheKey := "user:" + userUID

	if cached, err := h.redis.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
		var user usermodels.User
		if err := json.Unmarshal([]byte(cached), &user); err == nil {
			c.JSON(http.StatusOK, user)
			return
		}
	}

	var user usermodels.User
	query := `
		SELECT uid, COALESCE(display_name, ''), email, COALESCE(photo_url, ''), home_timezone, created_at, updated_at
		FROM users
		WHERE uid = $1
	`
	err := h.postgres.QueryRow(ctx, query, userUID).Scan(
		&user.UID, &user.DisplayName, &user.Email, &user.PhotoURL,
		&user.HomeTimezone, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	if data, err := json.Marshal(user); err == nil {
		_ = h.redis.Set(ctx, cacheKey, data, 24*time.Hour).Err()
	}

	c.JSON(http.StatusOK, user)
}
