package models

// OrderedIDs is the complete new media sequence for the post; position 0
// becomes the cover.
type ReorderMediaRequest struct {
	PostID     string   `json:"postId" binding:"required"`
	OrderedIDs []string `json:"orderedIds" binding:"required"`
}
