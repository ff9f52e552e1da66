package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// DeletePost removes a post, its tags and media rows, and the media files on
// disk. File cleanup failures are logged, not surfaced; the daily sweep picks
// up leftovers.
func (h *PostHandler) DeletePost(c *gin.Context) {
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

	// Collect file paths before the cascade removes the rows
	paths := make([]string, 0)
	rows, err := h.postgres.Query(ctx, `
		SELECT m.storage_path, COALESCE(m.thumbnail_path, '')
		FROM media m
		JOIN posts p ON p.id = m.post_id
		WHERE m.post_id = $1 AND p.user_uid = $2
	`, req.PostID, userUID)
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var storagePath, thumbPath string
			if err := rows.Scan(&storagePath, &thumbPath); err == nil {
				paths = append(paths, storagePath)
				if thumbPath != "" {
					paths = append(paths, thumbPath)
				}
			}
		}
		rows.Close()
	}

	tag, err := h.postgres.Exec(ctx,
		`DELETE FROM posts WHERE id = $1 AND user_uid = $2`, req.PostID, userUID)
	if err != nil {
		h.logError(c, err, "failed to delete post", "post_id", req.PostID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	for _, p := range paths {
		if err := os.Remove(filepath.Join(h.mediaDir, filepath.Base(p))); err != nil && !os.IsNotExist(err) {
			h.logError(c, err, "failed to remove media file", "path", p)
		}
	}

	h.redis.Del(ctx, postCacheKey(req.PostID))
	invalidateFeedCaches(ctx, h.redis, userUID)

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
