package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Pocketbook"`
		Port int    `envconfig:"PORT" default:"8080"`
		// AllowedOrigins is a comma separated CORS allow list.
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	// Local is the on-device store.
	Local struct {
		Path string `envconfig:"LOCAL_DB_PATH" default:"pocketbook.db"`
	}

	// DB is the remote sync database. Sync is disabled unless Enabled is set.
	DB struct {
		Enabled  bool   `envconfig:"DB_ENABLED" default:"false"`
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"pocketbook"`
	}

	Auth struct {
		Secret   string        `envconfig:"AUTH_SECRET" default:""`
		TokenTTL time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"168h"`
		// Token is the session the command line tools sync as. Empty means guest.
		Token string `envconfig:"AUTH_TOKEN"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Sync struct {
		RemoteTimeout time.Duration `envconfig:"SYNC_REMOTE_TIMEOUT" default:"15s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.DB.Enabled && cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required when DB_ENABLED is set")
	}

	return &cfg, nil
}
