package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"shootout"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	Session  Session
	Feed     Feed
	Security Security
}

// Postgres captures connection info for the content database.
type Postgres struct {
	Host     string `env:"PG_HOST"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER"`
	Password string `env:"PG_PASSWORD"`
	Database string `env:"PG_DATABASE"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Configured reports whether a Postgres connection can be built. The
// content repository is optional when the question feed is the source.
func (p Postgres) Configured() bool {
	return p.Host != "" && p.User != "" && p.Database != ""
}

// Redis holds session-store configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Session selects the session store engine.
type Session struct {
	StoreEngine string `env:"SESSION_STORE" envDefault:"memory"` // memory, redis, sqlite
	SQLitePath  string `env:"SESSION_SQLITE_PATH" envDefault:"shootout-sessions.db"`
}

// Feed points at the hosted content API question feed. When set it
// replaces the Postgres content repository as the question source.
type Feed struct {
	URL     string        `env:"QUESTION_FEED_URL"`
	Timeout time.Duration `env:"QUESTION_FEED_TIMEOUT" envDefault:"5s"`
}

// Security stores secrets for signing.
type Security struct {
	ClientTokenSecret string        `env:"CLIENT_TOKEN_SECRET,notEmpty"`
	ClientTokenTTL    time.Duration `env:"CLIENT_TOKEN_TTL" envDefault:"720h"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
