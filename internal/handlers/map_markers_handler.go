package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"io.wandr.triplog/internal/mapview"
	mapmodels "io.wandr.triplog/internal/models/map_markers"
)

// MapMarkers returns the geo-tagged posts inside a viewport as decluttered
// map pins. True coordinates never move; overlapping pins get display-only
// pixel offsets at the requested zoom.
func (h *FeedHandler) MapMarkers(c *gin.Context) {
	userUID := c.GetString("uid")
	if userUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	zoom, err := strconv.Atoi(c.DefaultQuery("zoom", "6"))
	if err != nil || zoom < 0 || zoom > 22 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zoom"})
		return
	}

	bounds, err := parseBounds(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := context.Background()

	query := `
		SELECT p.id, p.latitude, p.longitude,
			COALESCE((SELECT m.thumbnail_path FROM media m WHERE m.post_id = p.id ORDER BY m.display_order LIMIT 1), '')
		FROM posts p
		WHERE p.user_uid = $1
			AND p.latitude IS NOT NULL AND p.longitude IS NOT NULL
			AND p.latitude BETWEEN $2 AND $3
			AND p.longitude BETWEEN $4 AND $5
		ORDER BY COALESCE(p.captured_at, p.created_at)
	`
	rows, err := h.postgres.Query(ctx, query, userUID, bounds.minLat, bounds.maxLat, bounds.minLng, bounds.maxLng)
	if err != nil {
		h.logError(c, err, "failed to query map markers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load markers"})
		return
	}
	defer rows.Close()

	markers := make([]mapmodels.MapMarker, 0)
	pins := make([]mapview.Marker, 0)
	for rows.Next() {
		var m mapmodels.MapMarker
		if err := rows.Scan(&m.PostID, &m.Latitude, &m.Longitude, &m.ThumbnailPath); err != nil {
			h.logError(c, err, "failed to scan marker")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load markers"})
			return
		}
		m.X, m.Y = mapview.Project(m.Latitude, m.Longitude, zoom)
		markers = append(markers, m)
		pins = append(pins, mapview.Marker{ID: m.PostID, X: m.X, Y: m.Y})
	}
	if err := rows.Err(); err != nil {
		h.logError(c, err, "failed to read markers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load markers"})
		return
	}

	offsets := mapview.Declutter(pins, mapview.DefaultDeclutterParams())
	for i := range markers {
		markers[i].OffsetX = offsets[i].DX
		markers[i].OffsetY = offsets[i].DY
	}

	c.JSON(http.StatusOK, mapmodels.MapMarkersResponse{Zoom: zoom, Markers: markers})
}

type viewportBounds struct {
	minLat, maxLat, minLng, maxLng float64
}

// parseBounds reads the viewport query parameters, defaulting to the whole
// world when absent.
func parseBounds(c *gin.Context) (viewportBounds, error) {
	b := viewportBounds{minLat: -90, maxLat: 90, minLng: -180, maxLng: 180}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"minLat", &b.minLat},
		{"maxLat", &b.maxLat},
		{"minLng", &b.minLng},
		{"maxLng", &b.maxLng},
	} {
		if s := c.Query(f.name); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return b, errInvalidBounds
			}
			*f.dst = v
		}
	}
	if b.minLat > b.maxLat || b.minLng > b.maxLng {
		return b, errInvalidBounds
	}
	return b, nil
}
