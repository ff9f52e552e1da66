package trip

import "time"

// Post is a single diary entry. CapturedAt comes from photo EXIF when
// available and may legitimately predate CreatedAt (retroactively uploaded
// trip photos); chronological placement always prefers it over CreatedAt.
type Post struct {
	ID           string     `json:"id"`
	UserUID      string     `json:"userUid"`
	Body         string     `json:"body"`
	Tags         []string   `json:"tags"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	LocationName string     `json:"locationName,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CapturedAt   *time.Time `json:"capturedAt,omitempty"`
	Media        []Media    `json:"media"`
}

// EffectiveTimestamp returns the timestamp used for all chronological
// classification and ordering: CapturedAt if present, else CreatedAt.
func (p *Post) EffectiveTimestamp() time.Time {
	if p.CapturedAt != nil {
		return *p.CapturedAt
	}
	return p.CreatedAt
}
