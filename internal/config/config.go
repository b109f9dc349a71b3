package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultJWTSecret = "dev-secret-change-me"

type Config struct {
	Env            string
	Port           string
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string
	JWTTTL         time.Duration
	RateLimitRPS   int
	RateLimitBurst int
	WSSendBuffer   int
	RelayChannel   string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// LoadEnvFiles loads .env.local, falling back to .env. Missing files are not an error.
func LoadEnvFiles() {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Debug().Msg(".env not found, using environment variables")
		}
	}
}

func Load() Config {
	return Config{
		Env:            getenv("APP_ENV", "dev"),
		Port:           getenv("PORT", "8080"),
		DatabaseURL:    getenv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=connectx port=5432 sslmode=disable TimeZone=UTC"),
		RedisURL:       getenv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:      getenv("JWT_SECRET", defaultJWTSecret),
		JWTTTL:         time.Duration(getenvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		RateLimitRPS:   getenvInt("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getenvInt("RATE_LIMIT_BURST", 40),
		WSSendBuffer:   getenvInt("WS_SEND_BUFFER", 256),
		RelayChannel:   getenv("RELAY_CHANNEL", "connectx:chat"),
	}
}

func Validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("PORT is not set")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if cfg.Env != "dev" && cfg.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be changed outside dev")
	}
	return nil
}
