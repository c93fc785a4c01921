package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// ChatConfig carries the conversation knobs that vary with the upstream
// prompt: the closing-marker literals bounding the itinerary region change
// between prompt revisions, so they are configuration, not constants.
type ChatConfig struct {
	ClosingMarkers []string
	MaxRefinements int
	SessionTTL     time.Duration
	SessionJWTKey  string
}

type Config struct {
	Repositories RepositoriesConfig
	Gemini       GeminiConfig
	Chat         ChatConfig
	ServerPort   string
}

func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "routemethod"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Chat: ChatConfig{
			ClosingMarkers: splitMarkers(os.Getenv("ITINERARY_CLOSING_MARKERS")),
			MaxRefinements: getEnvIntOrDefault("MAX_REFINEMENTS", 10),
			SessionTTL:     getEnvDurationOrDefault("SESSION_TTL", 12*time.Hour),
			SessionJWTKey:  os.Getenv("SESSION_JWT_KEY"),
		},
		ServerPort: getEnvOrDefault("SERVER_PORT", "8080"),
	}

	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if cfg.Chat.SessionJWTKey == "" {
		return nil, fmt.Errorf("SESSION_JWT_KEY environment variable is required")
	}

	return cfg, nil
}

// splitMarkers parses the pipe-separated closing-marker override. Markers may
// legitimately contain commas, so comma is not the separator. Empty input
// means "use the detector defaults".
func splitMarkers(raw string) []string {
	if raw == "" {
		return nil
	}
	var markers []string
	for _, m := range strings.Split(raw, "|") {
		if m = strings.TrimSpace(m); m != "" {
			markers = append(markers, m)
		}
	}
	return markers
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
