package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageMemory    = "memory"
	StorageFirestore = "firestore"
	StoragePostgres  = "postgres"
)

type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"4000"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	JWTSecret   string `env:"JWT_SECRET" envDefault:"your-secret-key"`
	JWTExpiry   int64  `env:"JWT_EXPIRY" envDefault:"86400"`
	CORSOrigin  string `env:"CORS_ORIGIN" envDefault:"http://localhost:5173"`

	StorageDriver      string `env:"STORAGE_DRIVER" envDefault:"memory"`
	FirebaseProject    string `env:"FIREBASE_PROJECT_ID"`
	FirebaseAuth       bool   `env:"FIREBASE_AUTH_ENABLED" envDefault:"false"`
	ServiceAccountPath string `env:"FIREBASE_SERVICE_ACCOUNT_PATH"`
	DatabaseURI        string `env:"DATABASE_URI"`

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"helperhub.bookings"`

	ChatRatePerSecond float64 `env:"CHAT_RATE_PER_SECOND" envDefault:"2"`
	ChatBurst         int     `env:"CHAT_BURST" envDefault:"10"`
	HTTPRatePerSecond float64 `env:"HTTP_RATE_PER_SECOND" envDefault:"20"`
	HTTPBurst         int     `env:"HTTP_BURST" envDefault:"40"`

	OverdueScanInterval time.Duration `env:"OVERDUE_SCAN_INTERVAL" envDefault:"1m"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StorageFirestore:
		if c.FirebaseProject == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore driver")
		}
	case StoragePostgres:
		if c.DatabaseURI == "" {
			return fmt.Errorf("DATABASE_URI is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.FirebaseAuth && c.FirebaseProject == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required when FIREBASE_AUTH_ENABLED is set")
	}

	if c.ChatRatePerSecond <= 0 || c.ChatBurst <= 0 {
		return fmt.Errorf("chat rate limit must be positive")
	}
	if c.HTTPRatePerSecond <= 0 || c.HTTPBurst <= 0 {
		return fmt.Errorf("http rate limit must be positive")
	}
	if c.OverdueScanInterval <= 0 {
		return fmt.Errorf("OVERDUE_SCAN_INTERVAL must be positive, got %s", c.OverdueScanInterval)
	}

	return nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpiry) * time.Second
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
