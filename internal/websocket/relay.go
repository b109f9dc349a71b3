package websocket

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type relayEnvelope struct {
	Origin string          `json:"origin"`
	RoomID uuid.UUID       `json:"room_id"`
	Frame  json.RawMessage `json:"frame"`
}

// RedisRelay carries frames between server instances over Redis Pub/Sub. Each instance
// delivers its own publishes locally and ignores them when they come back.
type RedisRelay struct {
	rdb     *redis.Client
	channel string
	nodeID  string
	hub     *Hub
}

func NewRedisRelay(rdb *redis.Client, channel string, hub *Hub) *RedisRelay {
	return &RedisRelay{rdb: rdb, channel: channel, nodeID: uuid.NewString(), hub: hub}
}

func (r *RedisRelay) NodeID() string { return r.nodeID }

func (r *RedisRelay) Publish(ctx context.Context, roomID uuid.UUID, frame []byte) error {
	data, err := json.Marshal(relayEnvelope{Origin: r.nodeID, RoomID: roomID, Frame: frame})
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, r.channel, data).Err()
}

// Start subscribes and returns once Redis confirms the subscription. Frames are
// forwarded to the local hub until ctx is done.
func (r *RedisRelay) Start(ctx context.Context) error {
	sub := r.rdb.Subscribe(ctx, r.channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				r.forward(msg.Payload)
			}
		}
	}()
	log.Info().Str("channel", r.channel).Str("node_id", r.nodeID).Msg("relay subscribed")
	return nil
}

func (r *RedisRelay) forward(payload string) {
	var env relayEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		log.Warn().Err(err).Msg("relay: bad envelope")
		return
	}
	if env.Origin == r.nodeID {
		return
	}
	r.hub.Publish(env.RoomID, env.Frame)
}
