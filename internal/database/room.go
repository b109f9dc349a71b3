package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/connectx/internal/models"
	"github.com/thereayou/connectx/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxRoomCreateAttempts = 3

// GetOrCreateDirectRoom returns the single room for the unordered pair (a, b), creating it
// if needed. Concurrent callers converge on one row through the unique pair index: the
// insert is ON CONFLICT DO NOTHING and the loser re-reads the winner.
func (d *Database) GetOrCreateDirectRoom(ctx context.Context, a, b uuid.UUID) (*models.Room, error) {
	if a == uuid.Nil || b == uuid.Nil {
		return nil, apperr.ErrMissingUserID
	}
	if a == b {
		return nil, apperr.ErrSelfTarget
	}
	lo, hi := models.CanonicalPair(a, b)

	for attempt := 0; attempt < maxRoomCreateAttempts; attempt++ {
		room, err := d.FindDirectRoom(ctx, lo, hi)
		if err != nil {
			return nil, err
		}
		if room != nil {
			return room, nil
		}

		now := time.Now().UTC()
		candidate := &models.Room{User1ID: lo, User2ID: hi, CreatedAt: now, LastActivityAt: now}
		res := d.db.WithContext(ctx).
			Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
				DoNothing: true,
			}).
			Create(candidate)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			return d.GetRoom(ctx, candidate.ID)
		}
	}
	return nil, apperr.Wrap(apperr.CodeConflict, "room creation did not converge", nil)
}

// FindDirectRoom looks up the room for the pair without side effects. nil when absent.
func (d *Database) FindDirectRoom(ctx context.Context, a, b uuid.UUID) (*models.Room, error) {
	lo, hi := models.CanonicalPair(a, b)
	var room models.Room
	err := d.db.WithContext(ctx).
		Preload("User1").Preload("User2").
		Where("user1_id = ? AND user2_id = ?", lo, hi).
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (d *Database) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := d.db.WithContext(ctx).Preload("User1").Preload("User2").First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// GetUserRooms lists the user's rooms, most recently active first.
func (d *Database) GetUserRooms(ctx context.Context, userID uuid.UUID) ([]models.Room, error) {
	var rooms []models.Room
	err := d.db.WithContext(ctx).
		Preload("User1").Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("last_activity_at DESC").
		Find(&rooms).Error
	return rooms, err
}

func (d *Database) TouchRoom(ctx context.Context, roomID uuid.UUID, at time.Time) error {
	return touchRoom(d.db.WithContext(ctx), roomID, at)
}

// touchRoom never moves last activity backwards.
func touchRoom(tx *gorm.DB, roomID uuid.UUID, at time.Time) error {
	return tx.Model(&models.Room{}).
		Where("id = ? AND last_activity_at < ?", roomID, at).
		Update("last_activity_at", at).Error
}
