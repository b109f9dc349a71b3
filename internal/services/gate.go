package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/connectx/internal/models"
)

// Gate decides who may open or use a room. Nothing is cached: every call asks the
// Connection Directory again.
type Gate struct {
	conns ConnectionChecker
}

func NewGate(conns ConnectionChecker) *Gate {
	return &Gate{conns: conns}
}

// CanInitiate reports whether actor may open a room with target.
func (g *Gate) CanInitiate(ctx context.Context, actor, target uuid.UUID) (bool, error) {
	if actor == uuid.Nil || target == uuid.Nil || actor == target {
		return false, nil
	}
	status, err := g.conns.StatusBetween(ctx, actor, target)
	if err != nil {
		return false, err
	}
	return status == models.StatusAccepted, nil
}

// CanAccess reports whether actor may read or write room. Membership and connection
// status are checked separately.
func (g *Gate) CanAccess(ctx context.Context, actor uuid.UUID, room *models.Room) (bool, error) {
	if room == nil || !room.HasMember(actor) {
		return false, nil
	}
	other := room.Other(actor)
	if other == actor {
		return false, nil
	}
	return g.CanInitiate(ctx, actor, other)
}
