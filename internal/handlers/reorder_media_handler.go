package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	reordermodels "io.wandr.triplog/internal/models/reorder_media"
)

// ReorderMedia rewrites a post's media sequence; position 0 becomes the cover
func (h *PostHandler) ReorderMedia(c *gin.Context) {
	var req reordermodels.ReorderMediaRequest
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

	var count int
	err := h.postgres.QueryRow(ctx, `
		SELECT COUNT(*) FROM media m
		JOIN posts p ON p.id = m.post_id
		WHERE m.post_id = $1 AND p.user_uid = $2
	`, req.PostID, userUID).Scan(&count)
	if err != nil {
		h.logError(c, err, "failed to count media", "post_id", req.PostID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder media"})
		return
	}
	if count != len(req.OrderedIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderedIds must include every media item exactly once"})
		return
	}

	tx, err := h.postgres.Begin(ctx)
	if err != nil {
		h.logError(c, err, "failed to start transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder media"})
		return
	}
	defer tx.Rollback(ctx)

	for i, id := range req.OrderedIDs {
		tag, err := tx.Exec(ctx,
			`UPDATE media SET display_order = $1 WHERE id = $2 AND post_id = $3`,
			i, id, req.PostID)
		if err != nil || tag.RowsAffected() == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown media item in orderedIds"})
			return
		}
	}

	if err := tx.Commit(ctx); err != nil {
		h.logError(c, err, "failed to commit media reorder")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder media"})
		return
	}

	h.redis.Del(ctx, postCacheKey(req.PostID))
	invalidateFeedCaches(ctx, h.redis, userUID)

	c.JSON(http.StatusOK, gin.H{"status": "reordered"})
}
