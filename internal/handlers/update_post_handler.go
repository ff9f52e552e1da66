package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	updatemodels "io.wandr.triplog/internal/models/update_post"
)

// UpdatePost edits a post's body, tags, location, or capture time
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req updatemodels.UpdatePostRequest
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

	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 7)
	arg := func(v interface{}) int {
		args = append(args, v)
		return len(args)
	}

	if req.Body != nil {
		if *req.Body == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Body must not be empty"})
			return
		}
		sets = append(sets, setClause("body", arg(*req.Body)))
	}
	if req.Latitude != nil {
		sets = append(sets, setClause("latitude", arg(*req.Latitude)))
	}
	if req.Longitude != nil {
		sets = append(sets, setClause("longitude", arg(*req.Longitude)))
	}
	if req.LocationName != nil {
		sets = append(sets, setClause("location_name", arg(*req.LocationName)))
	}
	if req.CapturedAt != nil {
		if *req.CapturedAt == "" {
			sets = append(sets, setClause("captured_at", arg(nil)))
		} else {
			t, err := time.Parse(time.RFC3339, *req.CapturedAt)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "capturedAt must be RFC 3339"})
				return
			}
			sets = append(sets, setClause("captured_at", arg(t)))
		}
	}

	if len(sets) == 0 && req.Tags == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	tx, err := h.postgres.Begin(ctx)
	if err != nil {
		h.logError(c, err, "failed to start transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}
	defer tx.Rollback(ctx)

	if len(sets) > 0 {
		query := buildUpdateQuery("posts", sets, arg(req.PostID), arg(userUID))
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			h.logError(c, err, "failed to update post", "post_id", req.PostID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
			return
		}
		if tag.RowsAffected() == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
	} else {
		// Tags-only update still requires ownership
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1 AND user_uid = $2)`,
			req.PostID, userUID).Scan(&exists); err != nil || !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
	}

	if req.Tags != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, req.PostID); err != nil {
			h.logError(c, err, "failed to clear tags", "post_id", req.PostID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tags"})
			return
		}
		now := time.Now()
		for _, tag := range *req.Tags {
			if _, err := tx.Exec(ctx,
				`INSERT INTO post_tags (post_id, tag, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
				req.PostID, tag, now); err != nil {
				h.logError(c, err, "failed to insert tag", "tag", tag)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tags"})
				return
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		h.logError(c, err, "failed to commit post update")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	h.redis.Del(ctx, postCacheKey(req.PostID))
	invalidateFeedCaches(ctx, h.redis, userUID)

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
