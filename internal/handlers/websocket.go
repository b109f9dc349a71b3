package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/connectx/internal/middleware"
	"github.com/thereayou/connectx/internal/services"
	ws "github.com/thereayou/connectx/internal/websocket"
	"github.com/thereayou/connectx/pkg/auth"
)

// WebSocketHandler runs the realtime handshake for one room.
type WebSocketHandler struct {
	hub            *ws.Hub
	authn          middleware.Authenticator
	chat           *services.ChatService
	messageHandler *MessageHandler
	sendBuffer     int
	upgrader       websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, authn middleware.Authenticator, chat *services.ChatService, messageHandler *MessageHandler, sendBuffer int) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		authn:          authn,
		chat:           chat,
		messageHandler: messageHandler,
		sendBuffer:     sendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is enforced at the reverse proxy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleWebSocket authenticates and authorizes before upgrading. Failures end the
// handshake with a bare status and no body.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("room_id"))
	sess := ws.NewSession(roomID)
	if err != nil {
		h.reject(c, sess, http.StatusForbidden, "bad room id")
		return
	}

	token, err := auth.ExtractToken(c.Request)
	if err != nil {
		h.reject(c, sess, http.StatusUnauthorized, "missing token")
		return
	}
	userID, err := h.authn.Authenticate(c.Request.Context(), token)
	if err != nil {
		h.reject(c, sess, http.StatusUnauthorized, "authentication failed")
		return
	}
	if err := sess.Authenticate(userID); err != nil {
		h.reject(c, sess, http.StatusInternalServerError, err.Error())
		return
	}

	if _, err := h.chat.AuthorizeRoom(c.Request.Context(), userID, roomID); err != nil {
		h.reject(c, sess, http.StatusForbidden, err.Error())
		return
	}
	if err := sess.Authorize(); err != nil {
		h.reject(c, sess, http.StatusInternalServerError, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written an error response
		_ = sess.Reject()
		log.Debug().Err(err).Str("room_id", roomID.String()).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, sess, h.sendBuffer)
	if err := h.hub.Subscribe(client, roomID); err != nil {
		_ = sess.Reject()
		conn.Close()
		return
	}
	if err := sess.Activate(); err != nil {
		h.hub.Unsubscribe(client)
		conn.Close()
		return
	}
	log.Info().Str("user_id", userID.String()).Str("room_id", roomID.String()).Str("client_id", client.ID.String()).Msg("websocket session active")

	go client.WritePump()
	go client.ReadPump(h.messageHandler)
}

func (h *WebSocketHandler) reject(c *gin.Context, sess *ws.Session, status int, reason string) {
	_ = sess.Reject()
	log.Debug().Str("room_id", sess.RoomID().String()).Int("status", status).Str("reason", reason).Msg("websocket handshake rejected")
	c.AbortWithStatus(status)
}
