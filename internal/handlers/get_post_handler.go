package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	trip "io.wandr.triplog/internal/models/trip"
)

// GetPost fetches a single post with its tags and media
func (h *PostHandler) GetPost(c *gin.Context) {
	var req struct {
		PostID string `json:"postId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userUID := c.GetString("uid")
	if userUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx := context.Background()

	// Check Redis cache first
	if cached, err := h.redis.Get(ctx, postCacheKey(req.PostID)).Result(); err == nil && cached != "" {
		var post trip.Post
		if err := json.Unmarshal([]byte(cached), &post); err == nil && post.UserUID == userUID {
			c.JSON(http.StatusOK, post)
			return
		}
	}

	post, err := fetchPost(ctx, h.postgres, userUID, req.PostID)
	if err != nil {
		if errors.Is(err, errPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		h.logError(c, err, "failed to fetch post", "post_id", req.PostID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	if data, err := json.Marshal(post); err == nil {
		_ = h.redis.Set(ctx, postCacheKey(req.PostID), data, 24*time.Hour).Err()
	}

	c.JSON(http.StatusOK, post)
}
