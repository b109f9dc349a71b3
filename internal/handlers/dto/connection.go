package dto

import (
	"time"

	"github.com/google/uuid"
)

type ConnectRequest struct {
	ReceiverID string `json:"receiver_id"`
}

type RequestAction struct {
	RequestID string `json:"request_id"`
}

type ConnectionRequestResponse struct {
	ID        uuid.UUID `json:"id"`
	Sender    UserInfo  `json:"sender"`
	Receiver  UserInfo  `json:"receiver"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ConnectionsResponse struct {
	ReceivedPending []ConnectionRequestResponse `json:"received_pending"`
	Sent            []ConnectionRequestResponse `json:"sent"`
	Connections     []ConnectionRequestResponse `json:"connections"`
}

// ConnectionStatusResponse uses the client vocabulary: not_connected, pending or connected.
type ConnectionStatusResponse struct {
	Status    string     `json:"status"`
	RequestID *uuid.UUID `json:"request_id"`
	IsSender  bool       `json:"is_sender"`
}
