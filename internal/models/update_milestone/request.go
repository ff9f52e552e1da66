package models

type UpdateMilestoneRequest struct {
	MilestoneID   string   `json:"milestoneId" binding:"required"`
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	ArrivalDate   *string  `json:"arrivalDate,omitempty"`   // "" clears the date
	DepartureDate *string  `json:"departureDate,omitempty"` // "" clears the date
}
