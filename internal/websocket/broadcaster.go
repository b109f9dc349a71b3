package websocket

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/connectx/internal/handlers/dto"
)

// Broadcaster publishes stored messages to local subscribers and, when a relay is
// configured, to the other instances.
type Broadcaster struct {
	hub   *Hub
	relay *RedisRelay
}

func NewBroadcaster(hub *Hub, relay *RedisRelay) *Broadcaster {
	return &Broadcaster{hub: hub, relay: relay}
}

func (b *Broadcaster) PublishMessage(ctx context.Context, roomID uuid.UUID, msg dto.MessageResponse) {
	frame, err := json.Marshal(dto.NewMessageEvent(msg))
	if err != nil {
		log.Error().Err(err).Msg("encode message event")
		return
	}

	n := b.hub.Publish(roomID, frame)
	log.Debug().Str("room_id", roomID.String()).Uint64("message_id", msg.ID).Int("delivered", n).Msg("message published")

	if b.relay == nil {
		return
	}
	if err := b.relay.Publish(context.WithoutCancel(ctx), roomID, frame); err != nil {
		log.Warn().Err(err).Str("room_id", roomID.String()).Msg("relay publish failed")
	}
}
