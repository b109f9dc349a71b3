package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/connectx/internal/handlers/dto"
	"github.com/thereayou/connectx/internal/middleware"
	"github.com/thereayou/connectx/internal/services"
	"github.com/thereayou/connectx/pkg/apperr"
)

type ConnectionHandler struct {
	conns *services.ConnectionService
}

func NewConnectionHandler(conns *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{conns: conns}
}

func (h *ConnectionHandler) SendRequest(c *gin.Context) {
	var req dto.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receiverID, err := parseID(req.ReceiverID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.conns.Request(c.Request.Context(), middleware.CurrentUser(c), receiverID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ConnectionHandler) Accept(c *gin.Context) {
	h.decide(c, h.conns.Accept)
}

func (h *ConnectionHandler) Reject(c *gin.Context) {
	h.decide(c, h.conns.Reject)
}

type decisionFunc func(ctx context.Context, actor, requestID uuid.UUID) (*dto.ConnectionRequestResponse, error)

func (h *ConnectionHandler) decide(c *gin.Context, fn decisionFunc) {
	var req dto.RequestAction
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	requestID, err := parseID(req.RequestID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := fn(c.Request.Context(), middleware.CurrentUser(c), requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConnectionHandler) ListRequests(c *gin.Context) {
	resp, err := h.conns.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConnectionHandler) Status(c *gin.Context) {
	target, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		respondError(c, apperr.ErrUserNotFound)
		return
	}
	resp, err := h.conns.Status(c.Request.Context(), middleware.CurrentUser(c), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
