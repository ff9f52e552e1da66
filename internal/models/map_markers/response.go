package models

// MapMarker is one decluttered pin. Latitude/longitude stay the true
// coordinates; X/Y are the projected pixel position at the requested zoom and
// OffsetX/OffsetY the display-only nudge that separates overlapping pins.
type MapMarker struct {
	PostID        string  `json:"postId"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	OffsetX       float64 `json:"offsetX"`
	OffsetY       float64 `json:"offsetY"`
	ThumbnailPath string  `json:"thumbnailPath,omitempty"`
}

type MapMarkersResponse struct {
	Zoom    int         `json:"zoom"`
	Markers []MapMarker `json:"markers"`
}
