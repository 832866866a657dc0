package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// Page timers.
	ResetRedirectDelay time.Duration `env:"RESET_REDIRECT_DELAY, default=4s"`
	ConfettiDuration   time.Duration `env:"CONFETTI_DURATION,    default=1400ms"`

	API     APIConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

// APIConfig points at the remote Ratify API.
type APIConfig struct {
	BaseURL   string        `env:"API_BASE_URL,   default=http://localhost:8000/api"`
	Timeout   time.Duration `env:"API_TIMEOUT,    default=10s"`
	RateLimit float64       `env:"API_RATE_LIMIT, default=50"`
	RateBurst int           `env:"API_RATE_BURST, default=20"`
}

type SessionConfig struct {
	CookieName string        `env:"SESSION_COOKIE,        default=ratify_sid"`
	Secure     bool          `env:"SESSION_COOKIE_SECURE, default=false"`
	IdleTTL    time.Duration `env:"SESSION_IDLE_TTL,      default=30m"`
	TokenTTL   time.Duration `env:"SESSION_TOKEN_TTL,     default=720h"`
	// SealKey is a base64 32-byte key. Empty generates a per-process key.
	SealKey          string        `env:"SESSION_SEAL_KEY"`
	TokenReadTimeout time.Duration `env:"SESSION_TOKEN_READ_TIMEOUT, default=3s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ratify_web"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether ENV selects production behaviour.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if cfg.API.RateLimit <= 0 {
		return nil, fmt.Errorf("API_RATE_LIMIT must be positive, got %v", cfg.API.RateLimit)
	}
	return &cfg, nil
}
