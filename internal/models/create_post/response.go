package models

import (
	trip "io.wandr.triplog/internal/models/trip"
)

type CreatePostResponse struct {
	Post trip.Post `json:"post"`
}
