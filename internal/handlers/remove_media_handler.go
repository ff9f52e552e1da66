package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// RemoveMedia detaches one media item from a post, deletes its files, and
// closes the gap in display_order so the cover stays at position 0.
func (h *PostHandler) RemoveMedia(c *gin.Context) {
	var req struct {
		PostID  string `json:"postId" binding:"required"`
		MediaID string `json:"mediaId" binding:"required"`
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

	tx, err := h.postgres.Begin(ctx)
	if err != nil {
		h.logError(c, err, "failed to start transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove media"})
		return
	}
	defer tx.Rollback(ctx)

	var storagePath, thumbPath string
	var removedOrder int
	err = tx.QueryRow(ctx, `
		SELECT m.storage_path, COALESCE(m.thumbnail_path, ''), m.display_order
		FROM media m
		JOIN posts p ON p.id = m.post_id
		WHERE m.id = $1 AND m.post_id = $2 AND p.user_uid = $3
	`, req.MediaID, req.PostID, userUID).Scan(&storagePath, &thumbPath, &removedOrder)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
		return
	}

	if _, err := tx.Exec(ctx, `DELETE FROM media WHERE id = $1`, req.MediaID); err != nil {
		h.logError(c, err, "failed to delete media", "media_id", req.MediaID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove media"})
		return
	}

	if _, err := tx.Exec(ctx,
		`UPDATE media SET display_order = display_order - 1 WHERE post_id = $1 AND display_order > $2`,
		req.PostID, removedOrder); err != nil {
		h.logError(c, err, "failed to resequence media", "post_id", req.PostID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove media"})
		return
	}

	if err := tx.Commit(ctx); err != nil {
		h.logError(c, err, "failed to commit media removal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove media"})
		return
	}

	for _, p := range []string{storagePath, thumbPath} {
		if p == "" {
			continue
		}
		if err := os.Remove(filepath.Join(h.mediaDir, filepath.Base(p))); err != nil && !os.IsNotExist(err) {
			h.logError(c, err, "failed to remove media file", "path", p)
		}
	}

	h.redis.Del(ctx, postCacheKey(req.PostID))
	invalidateFeedCaches(ctx, h.redis, userUID)

	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}
