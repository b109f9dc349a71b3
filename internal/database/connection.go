package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/thereayou/connectx/internal/models"
	"github.com/thereayou/connectx/pkg/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindRequestBetween returns the single request row for the unordered pair, or nil.
func (d *Database) FindRequestBetween(ctx context.Context, a, b uuid.UUID) (*models.ConnectionRequest, error) {
	lo, hi := models.CanonicalPair(a, b)
	var req models.ConnectionRequest
	err := d.db.WithContext(ctx).Where("pair_low = ? AND pair_high = ?", lo, hi).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// StatusBetween is the connection predicate consumed by the chat authorization gate.
func (d *Database) StatusBetween(ctx context.Context, a, b uuid.UUID) (models.ConnectionStatus, error) {
	if a == b {
		return models.StatusNotConnected, nil
	}
	req, err := d.FindRequestBetween(ctx, a, b)
	if err != nil {
		return "", err
	}
	if req == nil {
		return models.StatusNotConnected, nil
	}
	return req.Status, nil
}

func (d *Database) CreateRequest(ctx context.Context, req *models.ConnectionRequest) error {
	res := d.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(req)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrRequestPending
	}
	return nil
}

func (d *Database) UpdateRequest(ctx context.Context, req *models.ConnectionRequest) error {
	return d.db.WithContext(ctx).Omit(clause.Associations).Save(req).Error
}

// GetPendingRequestFor finds a pending request addressed to receiverID.
func (d *Database) GetPendingRequestFor(ctx context.Context, id, receiverID uuid.UUID) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := d.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ? AND status = ?", id, receiverID, models.StatusPending).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (d *Database) ListReceivedPending(ctx context.Context, userID uuid.UUID) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := d.db.WithContext(ctx).
		Preload("Sender").Preload("Receiver").
		Where("receiver_id = ? AND status = ?", userID, models.StatusPending).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (d *Database) ListSent(ctx context.Context, userID uuid.UUID) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := d.db.WithContext(ctx).
		Preload("Sender").Preload("Receiver").
		Where("sender_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (d *Database) ListAccepted(ctx context.Context, userID uuid.UUID) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := d.db.WithContext(ctx).
		Preload("Sender").Preload("Receiver").
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.StatusAccepted).
		Order("updated_at DESC").
		Find(&reqs).Error
	return reqs, err
}
