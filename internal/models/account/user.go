package models

import "time"

type User struct {
	UID          string    `json:"uid"`
	DisplayName  string    `json:"displayName"`
	Email        string    `json:"email"`
	PhotoURL     string    `json:"photoUrl,omitempty"`
	HomeTimezone string    `json:"homeTimezone"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
