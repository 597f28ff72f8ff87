package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	StorePath string
	StaticDir string

	// Self-ping for free-tier hosts that idle out; disabled when empty
	KeepaliveURL      string
	KeepaliveInterval time.Duration

	// How long an empty room keeps its document before eviction
	RoomIdleTTL time.Duration

	// Per-connection inbound rate limit
	MessagesPerSecond float64
	MessageBurst      int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		StorePath: getEnv("CODEPAIR_DB_PATH", "./data/codepair.db"),
		StaticDir: getEnv("STATIC_DIR", ""),

		KeepaliveURL:      getEnv("KEEPALIVE_URL", ""),
		KeepaliveInterval: getEnvDuration("KEEPALIVE_INTERVAL", 30*time.Second),

		RoomIdleTTL: getEnvDuration("ROOM_IDLE_TTL", time.Hour),

		MessagesPerSecond: getEnvFloat("MESSAGES_PER_SECOND", 100),
		MessageBurst:      getEnvInt("MESSAGE_BURST", 200),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
