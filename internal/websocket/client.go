package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/connectx/internal/handlers/dto"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024

	// Upper bound for persisting one inbound frame.
	inboundTimeout = 10 * time.Second

	DefaultSendBuffer = 256
)

// InboundHandler receives the content of every frame read from an active session.
type InboundHandler interface {
	HandleInbound(ctx context.Context, c *Client, content string) error
}

type Client struct {
	ID      uuid.UUID
	Session *Session

	conn *websocket.Conn
	hub  *Hub
	send chan []byte

	// guarded by hub.mu
	sendClosed bool

	done     chan struct{}
	doneOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, sess *Session, buffer int) *Client {
	if buffer <= 0 {
		buffer = DefaultSendBuffer
	}
	return &Client{
		ID:      uuid.New(),
		Session: sess,
		conn:    conn,
		hub:     hub,
		send:    make(chan []byte, buffer),
		done:    make(chan struct{}),
	}
}

func (c *Client) UserID() uuid.UUID { return c.Session.UserID() }

func (c *Client) RoomID() uuid.UUID { return c.Session.RoomID() }

func (c *Client) markDone() {
	c.doneOnce.Do(func() { close(c.done) })
}

func (c *Client) transportClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// ReadPump reads frames until the transport fails, then tears the session down.
func (c *Client) ReadPump(handler InboundHandler) {
	defer func() {
		c.markDone()
		c.hub.Unsubscribe(c)
		if err := c.Session.Close(); err != nil {
			log.Debug().Err(err).Str("client_id", c.ID.String()).Msg("session close")
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("client_id", c.ID.String()).Msg("websocket read error")
			}
			return
		}

		var payload dto.MessagePayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Debug().Err(err).Str("client_id", c.ID.String()).Msg("dropping malformed frame")
			continue
		}
		if handler == nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), inboundTimeout)
		err = handler.HandleInbound(ctx, c, payload.Message)
		cancel()
		if err != nil {
			log.Error().Err(err).Str("client_id", c.ID.String()).Str("room_id", c.RoomID().String()).Msg("inbound message failed")
			c.SendError(err)
		}
	}
}

// WritePump drains the send queue to the transport and keeps the connection alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.markDone()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub closed the queue
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendError queues an error notice for this client only.
func (c *Client) SendError(err error) {
	frame, mErr := json.Marshal(errorFrame(err))
	if mErr != nil {
		return
	}
	if !c.hub.sendTo(c, frame) {
		log.Debug().Str("client_id", c.ID.String()).Msg("error notice dropped")
	}
}
