package models

// Dates travel as "YYYY-MM-DD" strings and are validated at the boundary;
// malformed dates are rejected, never stored.
type CreateMilestoneRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description,omitempty"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	DisplayOrder  *int    `json:"displayOrder,omitempty"` // appended at the end when absent
	ArrivalDate   string  `json:"arrivalDate,omitempty"`
	DepartureDate string  `json:"departureDate,omitempty"`
}
