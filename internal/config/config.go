package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Cache    CacheConfig
	Feed     FeedConfig
	APIKey   string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// CacheConfig holds TTLs for the in-process caches.
type CacheConfig struct {
	NavSeriesTTL time.Duration
	LatestNavTTL time.Duration
	ReturnsTTL   time.Duration
}

// FeedConfig holds settings for the vendor NAV feed.
type FeedConfig struct {
	BaseURL     string
	Schedule    string // cron expression, empty disables the job
	FernetKey   string
	RateLimit   float64
	HTTPTimeout time.Duration
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/scheme_returns.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Cache: CacheConfig{
			NavSeriesTTL: getDuration("CACHE_NAV_SERIES_TTL", 30*time.Minute),
			LatestNavTTL: getDuration("CACHE_LATEST_NAV_TTL", 5*time.Minute),
			ReturnsTTL:   getDuration("CACHE_RETURNS_TTL", 15*time.Minute),
		},
		Feed: FeedConfig{
			BaseURL:     getEnv("FEED_BASE_URL", "https://feeds.tickerplant.example.com"),
			Schedule:    getEnv("FEED_SCHEDULE", ""),
			FernetKey:   getEnv("FEED_FERNET_KEY", ""),
			RateLimit:   getFloat("FEED_RATE_LIMIT", 5),
			HTTPTimeout: getDuration("FEED_HTTP_TIMEOUT", 30*time.Second),
		},
		APIKey: getEnv("ADMIN_API_KEY", ""),
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration parses an environment variable as a duration or returns the default
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getFloat parses an environment variable as a float or returns the default
func getFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// splitList splits a comma-separated environment value into trimmed entries
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
