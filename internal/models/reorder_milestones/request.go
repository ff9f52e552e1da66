package models

// OrderedIDs is the complete new sequence of the author's milestones;
// display_order becomes the position in this list.
type ReorderMilestonesRequest struct {
	OrderedIDs []string `json:"orderedIds" binding:"required"`
}
