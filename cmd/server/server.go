package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/thereayou/connectx/internal/config"
	"github.com/thereayou/connectx/internal/database"
	"github.com/thereayou/connectx/internal/handlers"
	"github.com/thereayou/connectx/internal/middleware"
	"github.com/thereayou/connectx/internal/services"
	"github.com/thereayou/connectx/internal/websocket"
	"github.com/thereayou/connectx/pkg/auth"
)

type Server struct {
	cfg     config.Config
	Router  *gin.Engine
	DB      *database.Database
	Redis   *redis.Client
	Hub     *websocket.Hub
	Relay   *websocket.RedisRelay
	limiter *middleware.RateLimiter
}

func NewServer(cfg config.Config) (*Server, error) {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		return nil, err
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	hub := websocket.NewHub()
	relay := websocket.NewRedisRelay(rdb, cfg.RelayChannel, hub)

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		cfg:     cfg,
		Router:  router,
		DB:      db,
		Redis:   rdb,
		Hub:     hub,
		Relay:   relay,
		limiter: middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
	APIEndpoints(router, s.buildHandlers(), s.limiter)
	return s, nil
}

func (s *Server) buildHandlers() Handlers {
	jwtMgr := auth.NewJWTManager(s.cfg.JWTSecret, s.cfg.JWTTTL)
	authSvc := services.NewAuthService(s.DB, jwtMgr, s.Redis)
	chat := services.NewChatService(s.DB, services.NewGate(s.DB), websocket.NewBroadcaster(s.Hub, s.Relay))

	return Handlers{
		Authn:      authSvc,
		Auth:       handlers.NewAuthHandler(authSvc),
		User:       handlers.NewUserHandler(services.NewProfileService(s.DB)),
		Connection: handlers.NewConnectionHandler(services.NewConnectionService(s.DB, s.DB)),
		Room:       handlers.NewRoomHandler(chat),
		Message:    handlers.NewHTTPMessageHandler(chat),
		WebSocket:  handlers.NewWebSocketHandler(s.Hub, authSvc, chat, handlers.NewMessageHandler(chat), s.cfg.WSSendBuffer),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"postgres": s.DB,
			"redis":    handlers.PingFunc(func(ctx context.Context) error { return s.Redis.Ping(ctx).Err() }),
		}),
	}
}

// Run serves until SIGINT/SIGTERM, then drains connections.
func (s *Server) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Relay.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("relay subscribe failed")
	}
	go s.sweepLimiter(ctx)

	httpSrv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", s.cfg.Port).Msg("server starting")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server run error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	s.Hub.Stop()
	if err := s.Redis.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
	if err := s.DB.Close(); err != nil {
		log.Error().Err(err).Msg("database close")
	}
}

func (s *Server) sweepLimiter(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.limiter.Cleanup()
		}
	}
}
