package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	createmodels "io.wandr.triplog/internal/models/create_post"
	trip "io.wandr.triplog/internal/models/trip"
)

type PostHandler struct {
	postgres *pgxpool.Pool
	redis    *redis.Client
	logger   *zap.SugaredLogger
	mediaDir string
}

// NewPostHandler creates a new post handler. mediaDir is where uploaded
// files land; they are served statically under /media.
func NewPostHandler(postgres *pgxpool.Pool, redisClient *redis.Client, logger *zap.SugaredLogger, mediaDir string) *PostHandler {
	return &PostHandler{
		postgres: postgres,
		redis:    redisClient,
		logger:   logger,
		mediaDir: mediaDir,
	}
}

// CreatePost handles creation of new diary posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	var req createmodels.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userUID := c.GetString("uid")
	if userUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var capturedAt *time.Time
	if req.CapturedAt != "" {
		t, err := time.Parse(time.RFC3339, req.CapturedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "capturedAt must be RFC 3339"})
			return
		}
		capturedAt = &t
	}

	ctx := context.Background()
	postID := uuid.New().String()
	now := time.Now()

	tx, err := h.postgres.Begin(ctx)
	if err != nil {
		h.logError(c, err, "failed to start transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}
	defer tx.Rollback(ctx)

	postQuery := `
		INSERT INTO posts (id, user_uid, body, latitude, longitude, location_name, created_at, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.Exec(ctx, postQuery, postID, userUID, req.Body,
		req.Latitude, req.Longitude, req.LocationName, now, capturedAt)
	if err != nil {
		h.logError(c, err, "failed to insert post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	for _, tag := range req.Tags {
		if _, err := tx.Exec(ctx,
			`INSERT INTO post_tags (post_id, tag, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			postID, tag, now); err != nil {
			h.logError(c, err, "failed to insert tag", "tag", tag)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save tags"})
			return
		}
	}

	if err := tx.Commit(ctx); err != nil {
		h.logError(c, err, "failed to commit post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	invalidateFeedCaches(ctx, h.redis, userUID)

	post := trip.Post{
		ID:           postID,
		UserUID:      userUID,
		Body:         req.Body,
		Tags:         req.Tags,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		LocationName: req.LocationName,
		CreatedAt:    now,
		CapturedAt:   capturedAt,
		Media:        []trip.Media{},
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	// Cache the fresh post
	if data, err := json.Marshal(post); err == nil {
		_ = h.redis.Set(ctx, postCacheKey(postID), data, 24*time.Hour).Err()
	}

	c.JSON(http.StatusCreated, createmodels.CreatePostResponse{Post: post})
}
