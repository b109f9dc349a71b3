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

func (d *Database) SaveUser(ctx context.Context, user *models.User) error {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? OR username = ?", user.Email, user.Username).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.ErrEmailTaken
	}
	return d.db.WithContext(ctx).Create(user).Error
}

func (d *Database) UpdateUser(ctx context.Context, user *models.User) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

func (d *Database) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (d *Database) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (d *Database) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (d *Database) UpdateLastSeen(ctx context.Context, id uuid.UUID) error {
	return d.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_seen_at", time.Now()).Error
}
