package models

import (
	"time"

	"github.com/google/uuid"
)

// Message ids are assigned by the database in arrival order and break timestamp ties.
type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	RoomID    uuid.UUID `gorm:"type:uuid;not null;index:idx_message_room_order,priority:1"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null"`
	Content   string    `gorm:"type:text;not null"`
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;index:idx_message_room_order,priority:2"`

	Sender User `gorm:"foreignKey:SenderID"`
}
