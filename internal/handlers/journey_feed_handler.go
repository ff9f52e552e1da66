package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"io.wandr.triplog/internal/journey"
	feedmodels "io.wandr.triplog/internal/models/journey_feed"
	trip "io.wandr.triplog/internal/models/trip"
)

type FeedHandler struct {
	postgres    *pgxpool.Pool
	redis       *redis.Client
	logger      *zap.SugaredLogger
	shareSecret string
}

// NewFeedHandler creates a new feed handler. shareSecret signs public share
// tokens.
func NewFeedHandler(postgres *pgxpool.Pool, redisClient *redis.Client, logger *zap.SugaredLogger, shareSecret string) *FeedHandler {
	return &FeedHandler{
		postgres:    postgres,
		redis:       redisClient,
		logger:      logger,
		shareSecret: shareSecret,
	}
}

// JourneyFeed returns the author's posts grouped into milestone and day
// buckets, the structure the chronological feed renders
func (h *FeedHandler) JourneyFeed(c *gin.Context) {
	userUID := c.GetString("uid")
	if userUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx := context.Background()
	cacheKey := feedCacheKey(userUID)

	// Try Redis cache first
	if cached, err := h.redis.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
		var cachedResponse feedmodels.JourneyFeedResponse
		if err := json.Unmarshal([]byte(cached), &cachedResponse); err == nil {
			c.JSON(http.StatusOK, cachedResponse)
			return
		}
	}

	response, err := buildJourneyFeed(ctx, h.postgres, userUID)
	if err != nil {
		h.logError(c, err, "failed to build journey feed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build feed"})
		return
	}

	if data, err := json.Marshal(response); err == nil {
		_ = h.redis.Set(ctx, cacheKey, data, time.Hour).Err()
	}

	c.JSON(http.StatusOK, response)
}

// buildJourneyFeed loads milestones and posts and runs the grouping engine.
// Shared by the authenticated feed, the public share feed, and the cache
// warmer.
func buildJourneyFeed(ctx context.Context, pool *pgxpool.Pool, userUID string) (*feedmodels.JourneyFeedResponse, error) {
	milestones, err := fetchMilestones(ctx, pool, userUID)
	if err != nil {
		return nil, err
	}
	posts, err := fetchPosts(ctx, pool, userUID)
	if err != nil {
		return nil, err
	}

	groups := journey.GroupPosts(posts, milestones)

	response := &feedmodels.JourneyFeedResponse{
		Groups:    groups,
		DayBadges: map[string]string{},
	}

	// Absolute day badges are counted from the configured journey start, or
	// from the first dated milestone when none is configured.
	journeyStart, ok := resolveJourneyStart(milestones)
	if ok {
		response.JourneyStart = journeyStart.Format(dateLayout)
		for _, p := range posts {
			response.DayBadges[p.ID] = journey.DayLabel(journey.DayNumber(p.EffectiveTimestamp(), journeyStart))
		}
	}

	return response, nil
}

// resolveJourneyStart returns the journey's day-zero date: JOURNEY_START_DATE
// from the environment, else the first milestone arrival. The second return
// is false when neither exists.
func resolveJourneyStart(milestones []trip.Milestone) (time.Time, bool) {
	if s := os.Getenv("JOURNEY_START_DATE"); s != "" {
		if t, err := time.Parse(dateLayout, s); err == nil {
			return t, true
		}
	}
	for _, m := range milestones {
		if m.ArrivalDate != nil {
			return *m.ArrivalDate, true
		}
	}
	return time.Time{}, false
}
