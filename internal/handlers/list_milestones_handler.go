package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	trip "io.wandr.triplog/internal/models/trip"
)

// ListMilestones returns the author's trip stops in display order
func (h *MilestoneHandler) ListMilestones(c *gin.Context) {
	userUID := c.GetString("uid")
	if userUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx := context.Background()
	cacheKey := milestonesCacheKey(userUID)

	// Try Redis cache first
	if cached, err := h.redis.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
		var milestones []trip.Milestone
		if err := json.Unmarshal([]byte(cached), &milestones); err == nil {
			c.JSON(http.StatusOK, gin.H{"milestones": milestones})
			return
		}
	}

	milestones, err := fetchMilestones(ctx, h.postgres, userUID)
	if err != nil {
		h.logError(c, err, "failed to list milestones")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list milestones"})
		return
	}

	if data, err := json.Marshal(milestones); err == nil {
		_ = h.redis.Set(ctx, cacheKey, data, time.Hour).Err()
	}

	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}
