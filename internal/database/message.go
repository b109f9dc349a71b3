package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/connectx/internal/models"
	"github.com/thereayou/connectx/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppendMessage stores a message and bumps the room's last activity in one transaction.
// The room row is locked for the duration so appends to one room are serialized and
// timestamps are strictly increasing within it. The write ignores cancellation of ctx:
// once started it runs to commit or rollback.
func (d *Database) AppendMessage(ctx context.Context, roomID, senderID uuid.UUID, content string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperr.ErrEmptyContent
	}
	ctx = context.WithoutCancel(ctx)

	var msg models.Message
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, "id = ?", roomID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrRoomNotFound
		}
		if err != nil {
			return err
		}
		if !room.HasMember(senderID) {
			return apperr.ErrNotRoomMember
		}

		now := time.Now().UTC()
		if !now.After(room.LastActivityAt) {
			now = room.LastActivityAt.Add(time.Microsecond)
		}
		msg = models.Message{
			RoomID:    roomID,
			SenderID:  senderID,
			Content:   content,
			CreatedAt: now,
		}
		if err := tx.Omit(clause.Associations).Create(&msg).Error; err != nil {
			return err
		}
		return touchRoom(tx, roomID, now)
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListRoomMessages returns a snapshot of the room in append order.
func (d *Database) ListRoomMessages(ctx context.Context, roomID uuid.UUID) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	err := d.db.WithContext(ctx).
		Preload("Sender").
		Where("room_id = ?", roomID).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flags every unread message in the room not sent by reader. Idempotent.
func (d *Database) MarkRead(ctx context.Context, roomID, readerID uuid.UUID) (int64, error) {
	res := d.db.WithContext(ctx).Model(&models.Message{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = ?", roomID, readerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (d *Database) LastMessage(ctx context.Context, roomID uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := d.db.WithContext(ctx).
		Preload("Sender").
		Where("room_id = ?", roomID).
		Order("created_at DESC").Order("id DESC").
		First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (d *Database) UnreadCount(ctx context.Context, roomID, userID uuid.UUID) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.Message{}).
		Where("room_id = ? AND sender_id <> ? AND is_read = ?", roomID, userID, false).
		Count(&count).Error
	return count, err
}
