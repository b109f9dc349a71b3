package main

import (
	"github.com/rs/zerolog/log"
	"github.com/thereayou/connectx/internal/config"
	"github.com/thereayou/connectx/internal/logger"
)

func main() {
	config.LoadEnvFiles()
	cfg := config.Load()
	logger.Init(cfg.Env)

	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	srv, err := NewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("server init failed")
	}
	srv.Run()
}
