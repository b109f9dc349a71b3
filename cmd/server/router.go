package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thereayou/connectx/internal/handlers"
	"github.com/thereayou/connectx/internal/metrics"
	"github.com/thereayou/connectx/internal/middleware"
)

type Handlers struct {
	Authn      middleware.Authenticator
	Auth       *handlers.AuthHandler
	User       *handlers.UserHandler
	Connection *handlers.ConnectionHandler
	Room       *handlers.RoomHandler
	Message    *handlers.HTTPMessageHandler
	WebSocket  *handlers.WebSocketHandler
	Health     *handlers.HealthHandler
}

func APIEndpoints(r *gin.Engine, h Handlers, limiter *middleware.RateLimiter) {
	r.Use(middleware.RequestLogger(), metrics.GinMiddleware())

	r.GET("/healthz", h.Health.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", limiter.Middleware())

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/logout", middleware.AuthMiddleware(h.Authn), h.Auth.Logout)
	}

	secured := api.Group("", middleware.AuthMiddleware(h.Authn))

	profile := secured.Group("/profile")
	{
		profile.GET("/me", h.User.GetMe)
		profile.PATCH("/me", h.User.UpdateMe)
		profile.GET("/:id", h.User.GetUser)
	}

	connect := secured.Group("/connect")
	{
		connect.POST("/request", h.Connection.SendRequest)
		connect.POST("/accept", h.Connection.Accept)
		connect.POST("/reject", h.Connection.Reject)
		connect.GET("/requests", h.Connection.ListRequests)
		connect.GET("/status/:user_id", h.Connection.Status)
	}

	chat := secured.Group("/chat")
	{
		chat.POST("/room", h.Room.CreateDirectRoom)
		chat.GET("/rooms", h.Room.GetMyRooms)
		chat.GET("/room/:id/messages", h.Message.GetRoomMessages)
		chat.POST("/messages/send", h.Message.SendMessage)
		chat.GET("/messages/thread/:user_id", h.Message.GetThread)
	}

	// Auth runs inside the handler so handshake failures close without a body.
	r.GET("/ws/chat/:room_id", h.WebSocket.HandleWebSocket)
}
