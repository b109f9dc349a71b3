package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConnectionStatus string

const (
	StatusNotConnected ConnectionStatus = "not_connected"
	StatusPending      ConnectionStatus = "pending"
	StatusAccepted     ConnectionStatus = "accepted"
	StatusRejected     ConnectionStatus = "rejected"
)

// ConnectionRequest is a directional request between two users. Only one row exists
// per unordered pair; PairLow/PairHigh hold the pair in canonical order.
type ConnectionRequest struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey"`
	SenderID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	ReceiverID uuid.UUID        `gorm:"type:uuid;not null;index"`
	PairLow    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_connection_pair"`
	PairHigh   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_connection_pair"`
	Status     ConnectionStatus `gorm:"not null;default:'pending'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Sender   User `gorm:"foreignKey:SenderID"`
	Receiver User `gorm:"foreignKey:ReceiverID"`
}

func (r *ConnectionRequest) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.PairLow, r.PairHigh = CanonicalPair(r.SenderID, r.ReceiverID)
	return nil
}

// CanonicalPair orders two ids so that an unordered pair has exactly one representation.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() <= b.String() {
		return a, b
	}
	return b, a
}
