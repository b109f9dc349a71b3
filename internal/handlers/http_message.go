package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/connectx/internal/handlers/dto"
	"github.com/thereayou/connectx/internal/middleware"
	"github.com/thereayou/connectx/internal/services"
	"github.com/thereayou/connectx/pkg/apperr"
)

type HTTPMessageHandler struct {
	chat *services.ChatService
}

func NewHTTPMessageHandler(chat *services.ChatService) *HTTPMessageHandler {
	return &HTTPMessageHandler{chat: chat}
}

// GetRoomMessages returns the room history and marks it read for the caller.
func (h *HTTPMessageHandler) GetRoomMessages(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.ErrRoomNotFound)
		return
	}

	messages, err := h.chat.RoomMessages(c.Request.Context(), middleware.CurrentUser(c), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SendMessage is the request path alternative to the websocket. The room is created
// on first contact.
func (h *HTTPMessageHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	recipient, err := parseID(req.RecipientID)
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.chat.Send(c.Request.Context(), middleware.CurrentUser(c), recipient, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *HTTPMessageHandler) GetThread(c *gin.Context) {
	target, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		respondError(c, apperr.ErrUserNotFound)
		return
	}

	thread, err := h.chat.Thread(c.Request.Context(), middleware.CurrentUser(c), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}
