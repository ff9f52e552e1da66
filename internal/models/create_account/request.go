package models

type CreateAccountRequest struct {
	IDToken      string `json:"idToken" binding:"required"`
	DisplayName  string `json:"displayName"`
	HomeTimezone string `json:"homeTimezone"`
}
