package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime configuration for the service.
type Config struct {
	Port          string
	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	cfg := Config{
		Port:          envOr("PORT", "8080"),
		DatabaseDSN:   envOr("DATABASE_DSN", "host=localhost user=user password=password dbname=unicrewdb port=5432 sslmode=disable"),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: envOr("REDIS_PASSWORD", ""),
		RedisDB:       intOr("REDIS_DB", 0),
		ReadTimeout:   durationOr("HTTP_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:  durationOr("HTTP_WRITE_TIMEOUT", 10*time.Second),
	}

	cfg.JWTSecret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is not set")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
