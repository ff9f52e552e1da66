package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	createmodels "io.wandr.triplog/internal/models/create_milestone"
	trip "io.wandr.triplog/internal/models/trip"
)

type MilestoneHandler struct {
	postgres *pgxpool.Pool
	redis    *redis.Client
	logger   *zap.SugaredLogger
}

// NewMilestoneHandler creates a new milestone handler
func NewMilestoneHandler(postgres *pgxpool.Pool, redisClient *redis.Client, logger *zap.SugaredLogger) *MilestoneHandler {
	return &MilestoneHandler{
		postgres: postgres,
		redis:    redisClient,
		logger:   logger,
	}
}

// CreateMilestone adds a new trip stop to the author's journey
func (h *MilestoneHandler) CreateMilestone(c *gin.Context) {
	var req createmodels.CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userUID := c.GetString("uid")
	if userUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	arrival, err := parseDateField(req.ArrivalDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	departure, err := parseDateField(req.DepartureDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if arrival != nil && departure != nil && departure.Before(*arrival) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Departure date must not precede arrival date"})
		return
	}

	ctx := context.Background()

	// Append at the end of the sequence unless a position was requested
	displayOrder := 0
	if req.DisplayOrder != nil {
		displayOrder = *req.DisplayOrder
	} else {
		err := h.postgres.QueryRow(ctx,
			`SELECT COALESCE(MAX(display_order) + 1, 0) FROM milestones WHERE user_uid = $1`,
			userUID).Scan(&displayOrder)
		if err != nil {
			h.logError(c, err, "failed to compute display order")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create milestone"})
			return
		}
	}

	milestoneID := uuid.New().String()
	now := time.Now()

	query := `
		INSERT INTO milestones (id, user_uid, name, description, latitude, longitude, display_order, arrival_date, departure_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = h.postgres.Exec(ctx, query, milestoneID, userUID, req.Name, req.Description,
		req.Latitude, req.Longitude, displayOrder, arrival, departure, now)
	if err != nil {
		h.logError(c, err, "failed to insert milestone")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create milestone"})
		return
	}

	invalidateFeedCaches(ctx, h.redis, userUID)

	milestone := trip.Milestone{
		ID:            milestoneID,
		Name:          req.Name,
		Description:   req.Description,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		DisplayOrder:  displayOrder,
		ArrivalDate:   arrival,
		DepartureDate: departure,
		CreatedAt:     now,
	}
	c.JSON(http.StatusCreated, milestone)
}
