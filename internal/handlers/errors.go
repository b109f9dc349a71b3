package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/connectx/pkg/apperr"
)

// respondError maps err to a status. Server errors are logged and get a generic body.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": apperr.PublicMessage(err), "code": codeFor(err, status)})
}

func codeFor(err error, status int) apperr.Code {
	if status >= http.StatusInternalServerError {
		return apperr.CodeInternal
	}
	return apperr.CodeOf(err)
}

// parseID accepts an empty value as uuid.Nil so services can report the missing field.
func parseID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.InvalidArg("invalid id: " + raw)
	}
	return id, nil
}
