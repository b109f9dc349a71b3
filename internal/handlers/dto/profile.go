package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	FullName   string    `json:"full_name"`
	Name       string    `json:"name"`
	AvatarURL  string    `json:"avatar_url"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// UpdateProfileRequest only touches the fields that are present.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" binding:"omitempty,max=100"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,max=500"`
}
