package models

type CreatePostRequest struct {
	Body         string   `json:"body" binding:"required"`
	Tags         []string `json:"tags,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	LocationName string   `json:"locationName,omitempty"`
	CapturedAt   string   `json:"capturedAt,omitempty"` // RFC 3339; normally filled from media EXIF instead
}
