package trip

import "time"

// Milestone is an ordered stop on the journey. DisplayOrder defines the
// sequence of stops; arrival and departure are calendar dates (day
// granularity, no time-of-day) and either may be absent.
type Milestone struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	DisplayOrder  int        `json:"displayOrder"`
	ArrivalDate   *time.Time `json:"arrivalDate,omitempty"`
	DepartureDate *time.Time `json:"departureDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
