package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DeleteMilestone removes a trip stop. Posts that pointed at it are not
// deleted; the next grouping pass reassigns them to the surrounding windows.
func (h *MilestoneHandler) DeleteMilestone(c *gin.Context) {
	var req struct {
		MilestoneID string `json:"milestoneId" binding:"required"`
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

	tag, err := h.postgres.Exec(ctx,
		`DELETE FROM milestones WHERE id = $1 AND user_uid = $2`, req.MilestoneID, userUID)
	if err != nil {
		h.logError(c, err, "failed to delete milestone", "milestone_id", req.MilestoneID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete milestone"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
		return
	}

	invalidateFeedCaches(ctx, h.redis, userUID)

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
