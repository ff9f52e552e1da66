package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	updatemodels "io.wandr.triplog/internal/models/update_milestone"
)

// UpdateMilestone edits a trip stop's details and date window
func (h *MilestoneHandler) UpdateMilestone(c *gin.Context) {
	var req updatemodels.UpdateMilestoneRequest
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

	// Build the update column by column; date strings are validated before
	// anything touches the database.
	sets := make([]string, 0, 6)
	args := make([]interface{}, 0, 8)
	arg := func(v interface{}) int {
		args = append(args, v)
		return len(args)
	}

	if req.Name != nil {
		sets = append(sets, setClause("name", arg(*req.Name)))
	}
	if req.Description != nil {
		sets = append(sets, setClause("description", arg(*req.Description)))
	}
	if req.Latitude != nil {
		sets = append(sets, setClause("latitude", arg(*req.Latitude)))
	}
	if req.Longitude != nil {
		sets = append(sets, setClause("longitude", arg(*req.Longitude)))
	}
	if req.ArrivalDate != nil {
		d, err := parseDateField(*req.ArrivalDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sets = append(sets, setClause("arrival_date", arg(d)))
	}
	if req.DepartureDate != nil {
		d, err := parseDateField(*req.DepartureDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sets = append(sets, setClause("departure_date", arg(d)))
	}

	if len(sets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	query := buildUpdateQuery("milestones", sets, arg(req.MilestoneID), arg(userUID))
	tag, err := h.postgres.Exec(ctx, query, args...)
	if err != nil {
		h.logError(c, err, "failed to update milestone", "milestone_id", req.MilestoneID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update milestone"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
		return
	}

	invalidateFeedCaches(ctx, h.redis, userUID)

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
