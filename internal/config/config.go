// Package config centralizes Notir's environment-driven configuration.
// Only the fields of Config are read from the environment; other tunables
// (WebSocket deadlines and read limit, body-size cap, rate limits) are
// constants in the packages that use them.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all dynamic configuration, loaded once at boot.
type Config struct {
	Port     string
	LogLevel string

	// StaticDir, when non-empty, is served from disk instead of the
	// embedded bundle — useful for local frontend development.
	StaticDir string

	// AllowedOrigins configures the CORS middleware for publishers and
	// the bundled UI. A single "*" allows any origin.
	AllowedOrigins []string

	HeartbeatInterval time.Duration
	ReplyTimeout      time.Duration
}

// Load parses a .env file (if present) then the environment, applying
// sensible fallbacks for everything Notir needs to boot standalone.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("NOTIR_PORT", "5800"),
		LogLevel:          getEnv("NOTIR_LOG_LEVEL", "info"),
		StaticDir:         getEnv("NOTIR_STATIC_DIR", ""),
		AllowedOrigins:    splitCSV(getEnv("NOTIR_ALLOWED_ORIGINS", "*")),
		HeartbeatInterval: getEnvDuration("NOTIR_HEARTBEAT_INTERVAL", 30*time.Second),
		ReplyTimeout:      getEnvDuration("NOTIR_REPLY_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(value string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(value); i++ {
		if i == len(value) || value[i] == ',' {
			if part := value[start:i]; part != "" {
				out = append(out, part)
			}
			start = i + 1
		}
	}
	return out
}
