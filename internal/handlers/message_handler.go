package handlers

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/thereayou/connectx/internal/services"
	"github.com/thereayou/connectx/internal/websocket"
)

// MessageHandler persists frames coming in over an active websocket session.
type MessageHandler struct {
	chat *services.ChatService
}

func NewMessageHandler(chat *services.ChatService) *MessageHandler {
	return &MessageHandler{chat: chat}
}

// HandleInbound drops empty content without telling the client.
func (h *MessageHandler) HandleInbound(ctx context.Context, client *websocket.Client, content string) error {
	if strings.TrimSpace(content) == "" {
		log.Debug().Str("client_id", client.ID.String()).Msg("dropping empty frame")
		return nil
	}
	_, err := h.chat.PostToRoom(ctx, client.UserID(), client.RoomID(), content)
	return err
}
