package dto

import (
	"time"

	"github.com/google/uuid"
)

type OpenRoomRequest struct {
	UserID string `json:"user_id"`
}

type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

type RoomResponse struct {
	ID          uuid.UUID        `json:"id"`
	Members     []UserInfo       `json:"members"`
	LastMessage *MessageResponse `json:"last_message"`
	UnreadCount int64            `json:"unread_count"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
