package config

import (
	"fmt"
	"os"
)

// Config holds application configuration
type Config struct {
	Port          string
	DBConn        string
	LogLevel      string
	SessionSecret string
	SiteURL       string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBConn:        os.Getenv("DB_CONN"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SiteURL:       getEnv("SITE_URL", "http://localhost:8080"),
	}

	// The database and the session signing secret have no safe defaults;
	// refusing to start beats serving with a guessable secret.
	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
