package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	sharemodels "io.wandr.triplog/internal/models/share"
)

const defaultShareDays = 30

// CreateShareLink mints a signed read-only token for the author's diary.
// Anyone holding the token can view the grouped public feed until it
// expires.
func (h *FeedHandler) CreateShareLink(c *gin.Context) {
	var req sharemodels.CreateShareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userUID := c.GetString("uid")
	if userUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if h.shareSecret == "" {
		h.logError(c, nil, "share secret not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sharing is not configured"})
		return
	}

	days := req.ExpiresInDays
	if days <= 0 {
		days = defaultShareDays
	}
	expiresAt := time.Now().AddDate(0, 0, days)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": userUID,
		"jti": uuid.New().String(),
		"iat": time.Now().Unix(),
		"exp": expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(h.shareSecret))
	if err != nil {
		h.logError(c, err, "failed to sign share token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create share link"})
		return
	}

	c.JSON(http.StatusCreated, sharemodels.CreateShareLinkResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
	})
}
