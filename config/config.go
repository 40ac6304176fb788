package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting. Values come from the environment; a
// local .env file is loaded first when present.
type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET_KEY" required:"true"`
	ServerPort  int    `envconfig:"SERVER_PORT" default:"8080"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	RedisAddr       string        `envconfig:"REDIS_ADDR"`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD"`
	LeadersCacheTTL time.Duration `envconfig:"LEADERS_CACHE_TTL" default:"5m"`

	LeadersRefreshInterval time.Duration `envconfig:"LEADERS_REFRESH_INTERVAL" default:"10m"`

	// R2 settings are optional as a group: when empty, photo upload is
	// disabled and the app serves no photo URLs.
	R2AccountID       string `envconfig:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `envconfig:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `envconfig:"R2_BUCKET_NAME"`
	R2PublicBaseURL   string `envconfig:"R2_PUBLIC_BASE_URL"`
}

func Load() (*Config, error) {
	// A missing .env file is fine; containers set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	return &cfg, nil
}

// R2Configured reports whether all object-storage settings are present.
func (c *Config) R2Configured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}
