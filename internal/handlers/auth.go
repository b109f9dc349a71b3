package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/connectx/internal/handlers/dto"
	"github.com/thereayou/connectx/internal/services"
	"github.com/thereayou/connectx/pkg/auth"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(authSvc *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: authSvc}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.RegisterResponse{ID: user.ID.String(), Username: user.Username})
}

// Login issues a JWT and updates last_seen.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout blacklists the presented token until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.auth.Logout(c.Request.Context(), rawToken); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
