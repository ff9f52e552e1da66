package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	reordermodels "io.wandr.triplog/internal/models/reorder_milestones"
)

// ReorderMilestones rewrites display_order from the submitted sequence. The
// request must name every milestone exactly once; a partial list would leave
// duplicate orders behind.
func (h *MilestoneHandler) ReorderMilestones(c *gin.Context) {
	var req reordermodels.ReorderMilestonesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userUID := c.GetString("uid")
	if userUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	if len(req.OrderedIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderedIds must not be empty"})
		return
	}

	ctx := context.Background()

	var count int
	if err := h.postgres.QueryRow(ctx,
		`SELECT COUNT(*) FROM milestones WHERE user_uid = $1`, userUID).Scan(&count); err != nil {
		h.logError(c, err, "failed to count milestones")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder milestones"})
		return
	}
	if count != len(req.OrderedIDs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderedIds must include every milestone exactly once"})
		return
	}

	tx, err := h.postgres.Begin(ctx)
	if err != nil {
		h.logError(c, err, "failed to start transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder milestones"})
		return
	}
	defer tx.Rollback(ctx)

	// Two passes so the unique (user_uid, display_order) constraint never
	// trips on intermediate states.
	for i, id := range req.OrderedIDs {
		tag, err := tx.Exec(ctx,
			`UPDATE milestones SET display_order = $1 WHERE id = $2 AND user_uid = $3`,
			-(i + 1), id, userUID)
		if err != nil || tag.RowsAffected() == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown milestone in orderedIds"})
			return
		}
	}
	if _, err := tx.Exec(ctx,
		`UPDATE milestones SET display_order = -display_order - 1 WHERE user_uid = $1`, userUID); err != nil {
		h.logError(c, err, "failed to finalize reorder")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder milestones"})
		return
	}

	if err := tx.Commit(ctx); err != nil {
		h.logError(c, err, "failed to commit reorder")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder milestones"})
		return
	}

	invalidateFeedCaches(ctx, h.redis, userUID)

	c.JSON(http.StatusOK, gin.H{"status": "reordered"})
}
