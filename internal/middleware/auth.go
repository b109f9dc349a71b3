package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/connectx/pkg/apperr"
	"github.com/thereayou/connectx/pkg/auth"
)

const UserIDKey = "userID"

// Authenticator resolves a raw bearer token to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (uuid.UUID, error)
}

// AuthMiddleware requires a valid, non-revoked bearer token.
func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}

		userID, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(apperr.HTTPStatus(err), gin.H{"error": apperr.PublicMessage(err)})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// CurrentUser returns the id AuthMiddleware stored on the context.
func CurrentUser(c *gin.Context) uuid.UUID {
	return c.MustGet(UserIDKey).(uuid.UUID)
}
