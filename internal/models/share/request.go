package models

type CreateShareLinkRequest struct {
	ExpiresInDays int `json:"expiresInDays,omitempty"` // default 30
}
