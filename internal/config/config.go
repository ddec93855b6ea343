package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Gateway GatewayConfig
	MongoDB MongoDBConfig
	Session SessionConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// GatewayConfig contains credentials and options for the remote data gateway
// hosting the club's backend procedures.
type GatewayConfig struct {
	BaseURL    string
	APIKey     string
	ServiceKey string
	Timeout    time.Duration
}

// MongoDBConfig holds settings for the preference store database.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SessionConfig holds session lifetime and cleanup settings.
type SessionConfig struct {
	TTL           time.Duration
	SweepSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	gatewayTimeout, err := durationWithDefault("GATEWAY_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	sessionTTL, err := durationWithDefault("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Gateway: GatewayConfig{
			BaseURL:    os.Getenv("GATEWAY_URL"),
			APIKey:     os.Getenv("GATEWAY_API_KEY"),
			ServiceKey: os.Getenv("GATEWAY_SERVICE_KEY"),
			Timeout:    gatewayTimeout,
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "aeroclub"),
		},
		Session: SessionConfig{
			TTL:           sessionTTL,
			SweepSchedule: getenvWithDefault("SESSION_SWEEP_SCHEDULE", "@every 1h"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.Gateway.BaseURL == "":
		return errors.New("GATEWAY_URL must be provided")
	case c.Gateway.APIKey == "":
		return errors.New("GATEWAY_API_KEY must be provided")
	}

	if c.Gateway.ServiceKey == "" {
		// The anonymous key doubles as the service key on read-mostly deployments.
		c.Gateway.ServiceKey = c.Gateway.APIKey
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must not be empty")
	}

	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	if c.Session.SweepSchedule == "" {
		return errors.New("SESSION_SWEEP_SCHEDULE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration in %s: %w", key, err)
	}
	return parsed, nil
}
