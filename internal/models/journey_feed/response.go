package models

import (
	"io.wandr.triplog/internal/journey"
)

// DayBadges maps post IDs to their absolute "Dag N" badge, counted from the
// journey start date. It coexists with the per-milestone day sequence inside
// the groups; the two numbering schemes serve different parts of the UI.
type JourneyFeedResponse struct {
	JourneyStart string                   `json:"journeyStart,omitempty"` // "YYYY-MM-DD"
	Groups       []journey.MilestoneGroup `json:"groups"`
	DayBadges    map[string]string        `json:"dayBadges"`
}
