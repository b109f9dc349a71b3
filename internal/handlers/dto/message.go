package dto

import (
	"time"

	"github.com/google/uuid"
)

// MessagePayload is the inbound realtime frame.
type MessagePayload struct {
	Message string `json:"message"`
}

type SendMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Message     string `json:"message"`
}

type MessageResponse struct {
	ID         uint64    `json:"id"`
	RoomID     uuid.UUID `json:"room_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	IsRead     bool      `json:"is_read"`
}

// ThreadResponse carries a null room id when the pair has never talked.
type ThreadResponse struct {
	RoomID   *uuid.UUID        `json:"room_id"`
	Messages []MessageResponse `json:"messages"`
}

const EventMessage = "message"

// EventData is the message view pushed to realtime subscribers.
type EventData struct {
	ID         uint64    `json:"id"`
	SenderID   uuid.UUID `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

type Event struct {
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

func NewMessageEvent(m MessageResponse) Event {
	return Event{
		Type: EventMessage,
		Data: EventData{
			ID:         m.ID,
			SenderID:   m.SenderID,
			SenderName: m.SenderName,
			Content:    m.Content,
			Timestamp:  m.Timestamp,
		},
	}
}
