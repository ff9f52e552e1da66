package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PublicFeed serves the grouped journey feed to share-link readers. The
// share token middleware has already validated the token and set the diary
// owner's uid.
func (h *FeedHandler) PublicFeed(c *gin.Context) {
	ownerUID := c.GetString("share_uid")
	if ownerUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid share token"})
		return
	}

	ctx := context.Background()

	response, err := buildJourneyFeed(ctx, h.postgres, ownerUID)
	if err != nil {
		h.logError(c, err, "failed to build public feed", "owner_uid", ownerUID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build feed"})
		return
	}

	c.JSON(http.StatusOK, response)
}
