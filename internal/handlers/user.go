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

type UserHandler struct {
	profiles *services.ProfileService
}

func NewUserHandler(profiles *services.ProfileService) *UserHandler {
	return &UserHandler{profiles: profiles}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID := middleware.CurrentUser(c)
	profile, err := h.profiles.Get(c.Request.Context(), userID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMe only changes the fields present in the body.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.ErrUserNotFound)
		return
	}
	profile, err := h.profiles.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
