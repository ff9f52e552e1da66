package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"io.wandr.triplog/internal/media"
	trip "io.wandr.triplog/internal/models/trip"
)

// Uploads larger than this are rejected outright.
const maxUploadBytes = 100 * 1024 * 1024

// AddMedia attaches an uploaded photo or video to a post. For photos the
// EXIF block supplies capture time and GPS coordinates, and a thumbnail is
// generated; videos must bring their own thumbnail in the optional
// "thumbnail" form field. When the parent post has no capture time or
// location of its own yet, the first upload's EXIF values are promoted to it.
func (h *PostHandler) AddMedia(c *gin.Context) {
	if c.Request.ContentLength > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload exceeds size limit"})
		return
	}

	userUID := c.GetString("uid")
	if userUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	postID := c.PostForm("postId")
	if postID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "postId is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	mediaType := media.TypeForContentType(fileHeader.Header.Get("Content-Type"))
	if mediaType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported media type"})
		return
	}

	ctx := context.Background()

	// Verify ownership before writing anything to disk
	var postCapturedAt *time.Time
	var postLat, postLng *float64
	err = h.postgres.QueryRow(ctx,
		`SELECT captured_at, latitude, longitude FROM posts WHERE id = $1 AND user_uid = $2`,
		postID, userUID).Scan(&postCapturedAt, &postLat, &postLng)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		h.logError(c, err, "failed to read upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return
	}

	mediaID := uuid.New().String()
	ext := filepath.Ext(fileHeader.Filename)
	filename := mediaID + ext
	if err := os.WriteFile(filepath.Join(h.mediaDir, filename), data, 0o644); err != nil {
		h.logError(c, err, "failed to store media file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store media"})
		return
	}

	item := trip.Media{
		ID:          mediaID,
		PostID:      postID,
		Type:        mediaType,
		StoragePath: "/media/" + filename,
		CreatedAt:   time.Now(),
	}

	if mediaType == trip.MediaTypeImage {
		if info := media.ExtractExif(data); info != nil {
			item.CapturedAt = info.CapturedAt
			item.Latitude = info.Latitude
			item.Longitude = info.Longitude
			item.Exif = info.Raw
		}
		if img, err := media.DecodeImage(bytes.NewReader(data)); err == nil {
			b := img.Bounds()
			item.Width, item.Height = b.Dx(), b.Dy()

			thumbName := mediaID + "_thumb.jpg"
			if err := media.SaveJPEG(media.Thumbnail(img), filepath.Join(h.mediaDir, thumbName)); err == nil {
				item.ThumbnailPath = "/media/" + thumbName
			} else {
				h.logError(c, err, "failed to write thumbnail", "media_id", mediaID)
			}
		}
	} else if thumbHeader, err := c.FormFile("thumbnail"); err == nil {
		thumbData, err := readUpload(thumbHeader)
		if err == nil {
			thumbName := mediaID + "_thumb" + filepath.Ext(thumbHeader.Filename)
			if err := os.WriteFile(filepath.Join(h.mediaDir, thumbName), thumbData, 0o644); err == nil {
				item.ThumbnailPath = "/media/" + thumbName
			}
		}
	}

	tx, err := h.postgres.Begin(ctx)
	if err != nil {
		h.logError(c, err, "failed to start transaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save media"})
		return
	}
	defer tx.Rollback(ctx)

	// Append at the end; position 0 is the cover
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM media WHERE post_id = $1`, postID).Scan(&item.DisplayOrder); err != nil {
		h.logError(c, err, "failed to compute media order")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save media"})
		return
	}

	insertQuery := `
		INSERT INTO media (id, post_id, type, storage_path, thumbnail_path, width, height, latitude, longitude, captured_at, exif, display_order, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, 0), NULLIF($7, 0), $8, $9, $10, $11, $12, $13)
	`
	_, err = tx.Exec(ctx, insertQuery, item.ID, item.PostID, item.Type, item.StoragePath,
		item.ThumbnailPath, item.Width, item.Height, item.Latitude, item.Longitude,
		item.CapturedAt, item.Exif, item.DisplayOrder, item.CreatedAt)
	if err != nil {
		h.logError(c, err, "failed to insert media", "media_id", mediaID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save media"})
		return
	}

	// Promote EXIF capture time and GPS fix to the post when it has none
	if postCapturedAt == nil && item.CapturedAt != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE posts SET captured_at = $1 WHERE id = $2 AND captured_at IS NULL`,
			item.CapturedAt, postID); err != nil {
			h.logError(c, err, "failed to promote captured_at", "post_id", postID)
		}
	}
	if postLat == nil && item.Latitude != nil && item.Longitude != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE posts SET latitude = $1, longitude = $2 WHERE id = $3 AND latitude IS NULL`,
			item.Latitude, item.Longitude, postID); err != nil {
			h.logError(c, err, "failed to promote location", "post_id", postID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		h.logError(c, err, "failed to commit media")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save media"})
		return
	}

	h.redis.Del(ctx, postCacheKey(postID))
	invalidateFeedCaches(ctx, h.redis, userUID)

	c.JSON(http.StatusCreated, item)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}
