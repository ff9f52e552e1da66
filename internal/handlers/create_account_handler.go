package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	firebaseutil "io.wandr.triplog/internal/firebase"
	usermodels "io.wandr.triplog/internal/models/account"
	createmodels "io.wandr.triplog/internal/models/create_account"
)

type AuthHandler struct {
	firebaseApp *firebase.App
	postgres    *pgxpool.Pool
	redis       *redis.Client
	logger      *zap.SugaredLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(firebaseApp *firebase.App, postgres *pgxpool.Pool, redisClient *redis.Client, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{
		firebaseApp: firebaseApp,
		postgres:    postgres,
		redis:       redisClient,
		logger:      logger,
	}
}

// CreateAccount registers an author. Identity lives with the auth provider;
// this verifies the ID token and mirrors the profile into our users table.
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	var req createmodels.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	ctx := context.Background()

	authClient, err := firebaseutil.GetAuthClient(h.firebaseApp)
	if err != nil {
		h.logError(c, err, "failed to initialize auth client")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize auth client"})
		return
	}

	idToken, err := authClient.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid ID token"})
		return
	}

	userRecord, err := authClient.GetUser(ctx, idToken.UID)
	if err != nil {
		h.logError(c, err, "failed to load user record", "uid", idToken.UID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = userRecord.DisplayName
	}
	homeTimezone := req.HomeTimezone
	if homeTimezone == "" {
		homeTimezone = "UTC"
	}

	now := time.Now()
	user := &usermodels.User{
		UID:          userRecord.UID,
		DisplayName:  displayName,
		Email:        userRecord.Email,
		PhotoURL:     userRecord.PhotoURL,
		HomeTimezone: homeTimezone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `
		INSERT INTO users (uid, display_name, email, photo_url, home_timezone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (uid) DO UPDATE
		SET display_name = EXCLUDED.display_name,
			photo_url = EXCLUDED.photo_url,
			home_timezone = EXCLUDED.home_timezone,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := h.postgres.Exec(ctx, query, user.UID, user.DisplayName, user.Email,
		user.PhotoURL, user.HomeTimezone, now, now); err != nil {
		h.logError(c, err, "failed to store user", "uid", user.UID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	// Cache the profile for the session
	if data, err := json.Marshal(user); err == nil {
		_ = h.redis.Set(ctx, "user:"+user.UID, data, 24*time.Hour).Err()
	}

	c.JSON(http.StatusCreated, user)
}
