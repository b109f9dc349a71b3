package websocket

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/connectx/internal/metrics"
)

// Hub maps rooms to the live clients subscribed to them. A client holds at most one
// subscription. Send channels are closed only under the write lock, and publishing
// only sends under the read lock, so no one ever sends on a closed channel.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*Client]struct{}
	subs  map[*Client]uuid.UUID
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[*Client]struct{}),
		subs:  make(map[*Client]uuid.UUID),
	}
}

// Subscribe registers c under roomID, dropping any earlier subscription.
func (h *Hub) Subscribe(c *Client, roomID uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.sendClosed {
		return ErrSessionClosed
	}
	if prev, ok := h.subs[c]; ok {
		if prev == roomID {
			return nil
		}
		h.detachLocked(c, prev)
	} else {
		metrics.WSSessions.Inc()
	}

	set, ok := h.rooms[roomID]
	if !ok {
		set = make(map[*Client]struct{})
		h.rooms[roomID] = set
	}
	set[c] = struct{}{}
	h.subs[c] = roomID

	log.Debug().Str("client_id", c.ID.String()).Str("room_id", roomID.String()).Msg("client subscribed")
	return nil
}

// Unsubscribe removes c and closes its send queue. Safe to call more than once.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

// Publish queues frame for every subscriber of roomID without blocking. Subscribers
// whose queue is full or whose transport is gone are purged. Returns the number of
// clients the frame was queued for.
func (h *Hub) Publish(roomID uuid.UUID, frame []byte) int {
	var stale []*Client
	delivered := 0

	h.mu.RLock()
	for c := range h.rooms[roomID] {
		if c.transportClosed() {
			stale = append(stale, c)
			continue
		}
		select {
		case c.send <- frame:
			delivered++
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	if len(stale) == 0 {
		return delivered
	}

	metrics.FanoutDropped.Add(float64(len(stale)))
	h.mu.Lock()
	for _, c := range stale {
		if h.subs[c] == roomID {
			h.dropLocked(c)
		}
	}
	h.mu.Unlock()
	log.Warn().Str("room_id", roomID.String()).Int("dropped", len(stale)).Msg("purged slow or closed subscribers")
	return delivered
}

// sendTo queues a frame for one client, used for per-session notices.
func (h *Hub) sendTo(c *Client, frame []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c.sendClosed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (h *Hub) RoomSize(roomID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// SessionCount is the number of subscribed clients across all rooms.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Stop closes every subscriber queue, which makes their write pumps hang up.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.subs {
		h.dropLocked(c)
	}
}

func (h *Hub) dropLocked(c *Client) {
	if roomID, ok := h.subs[c]; ok {
		h.detachLocked(c, roomID)
		delete(h.subs, c)
		metrics.WSSessions.Dec()
		log.Debug().Str("client_id", c.ID.String()).Str("room_id", roomID.String()).Msg("client unsubscribed")
	}
	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

func (h *Hub) detachLocked(c *Client, roomID uuid.UUID) {
	if set, ok := h.rooms[roomID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.rooms, roomID)
		}
	}
}
