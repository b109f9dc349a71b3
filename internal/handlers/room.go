package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/connectx/internal/handlers/dto"
	"github.com/thereayou/connectx/internal/middleware"
	"github.com/thereayou/connectx/internal/services"
)

type RoomHandler struct {
	chat *services.ChatService
}

func NewRoomHandler(chat *services.ChatService) *RoomHandler {
	return &RoomHandler{chat: chat}
}

// CreateDirectRoom creates or returns the caller's room with user_id.
func (h *RoomHandler) CreateDirectRoom(c *gin.Context) {
	var req dto.OpenRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target, err := parseID(req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	room, err := h.chat.OpenRoom(c.Request.Context(), middleware.CurrentUser(c), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) GetMyRooms(c *gin.Context) {
	rooms, err := h.chat.Rooms(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}
