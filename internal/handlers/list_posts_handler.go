package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListPosts returns all of the author's posts in chronological reading
// order (effective timestamp ascending), with tags and media hydrated.
func (h *PostHandler) ListPosts(c *gin.Context) {
	userUID := c.GetString("uid")
	if userUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx := context.Background()

	posts, err := fetchPosts(ctx, h.postgres, userUID)
	if err != nil {
		h.logError(c, err, "failed to list posts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}
