package models

type UpdatePostRequest struct {
	PostID       string    `json:"postId" binding:"required"`
	Body         *string   `json:"body,omitempty"`
	Tags         *[]string `json:"tags,omitempty"` // full replacement when present
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	LocationName *string   `json:"locationName,omitempty"`
	CapturedAt   *string   `json:"capturedAt,omitempty"` // RFC 3339, "" clears
}
