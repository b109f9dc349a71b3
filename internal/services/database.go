package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/connectx/internal/database"
	"github.com/thereayou/connectx/internal/models"
)

type UserStore interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastSeen(ctx context.Context, id uuid.UUID) error
}

// ConnectionChecker is the Connection Directory predicate the gate relies on.
type ConnectionChecker interface {
	StatusBetween(ctx context.Context, a, b uuid.UUID) (models.ConnectionStatus, error)
}

type ConnectionStore interface {
	ConnectionChecker
	FindRequestBetween(ctx context.Context, a, b uuid.UUID) (*models.ConnectionRequest, error)
	CreateRequest(ctx context.Context, req *models.ConnectionRequest) error
	UpdateRequest(ctx context.Context, req *models.ConnectionRequest) error
	GetPendingRequestFor(ctx context.Context, id, receiverID uuid.UUID) (*models.ConnectionRequest, error)
	ListReceivedPending(ctx context.Context, userID uuid.UUID) ([]models.ConnectionRequest, error)
	ListSent(ctx context.Context, userID uuid.UUID) ([]models.ConnectionRequest, error)
	ListAccepted(ctx context.Context, userID uuid.UUID) ([]models.ConnectionRequest, error)
}

type RoomStore interface {
	GetOrCreateDirectRoom(ctx context.Context, a, b uuid.UUID) (*models.Room, error)
	FindDirectRoom(ctx context.Context, a, b uuid.UUID) (*models.Room, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error)
	GetUserRooms(ctx context.Context, userID uuid.UUID) ([]models.Room, error)
	TouchRoom(ctx context.Context, roomID uuid.UUID, at time.Time) error
}

type MessageStore interface {
	AppendMessage(ctx context.Context, roomID, senderID uuid.UUID, content string) (*models.Message, error)
	ListRoomMessages(ctx context.Context, roomID uuid.UUID) ([]models.Message, error)
	MarkRead(ctx context.Context, roomID, readerID uuid.UUID) (int64, error)
	LastMessage(ctx context.Context, roomID uuid.UUID) (*models.Message, error)
	UnreadCount(ctx context.Context, roomID, userID uuid.UUID) (int64, error)
}

// ChatStore is everything the chat service reads and writes.
type ChatStore interface {
	RoomStore
	MessageStore
	ConnectionChecker
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

var (
	_ UserStore       = (*database.Database)(nil)
	_ ConnectionStore = (*database.Database)(nil)
	_ ChatStore       = (*database.Database)(nil)
)
