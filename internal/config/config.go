package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	DatabaseURL    string
	TokenSecret    string
	PollIntervalMs int
	AllowedOrigins []string
}

func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		TokenSecret:    getEnv("TOKEN_SECRET", "dev-secret"),
		PollIntervalMs: getEnvInt("POLL_INTERVAL_MS", 3000),
		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "*")},
	}
	return cfg
}

// PollInterval is the playback poll cadence as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
