package trip

import "time"

// Media types.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Media is one photo or video attached to a post. DisplayOrder is the
// zero-based position within the post; the first item is the post's cover.
// A media item may carry its own coordinates and capture time from EXIF,
// which can differ from the parent post's location.
type Media struct {
	ID            string     `json:"id"`
	PostID        string     `json:"postId"`
	Type          string     `json:"type"`
	StoragePath   string     `json:"storagePath"`
	ThumbnailPath string     `json:"thumbnailPath,omitempty"`
	Width         int        `json:"width,omitempty"`
	Height        int        `json:"height,omitempty"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`
	CapturedAt    *time.Time `json:"capturedAt,omitempty"`
	Exif          []byte     `json:"-"`
	DisplayOrder  int        `json:"displayOrder"`
	CreatedAt     time.Time  `json:"createdAt"`
}
