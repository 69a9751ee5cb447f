// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads teamauth configuration from a YAML file and command-line
// flags.
//
// Precedence, lowest first: built-in defaults, the YAML file, then flags the
// user explicitly set. The YAML file is checked against the generated JSON
// Schema before it is merged, so unknown keys are rejected early.
package config

import (
	"net/url"
	"time"

	"github.com/samber/oops"

	"github.com/holomush/teamauth/internal/logging"
)

// Store backend names.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config is the complete teamauth configuration.
type Config struct {
	API     API     `koanf:"api" yaml:"api" json:"api,omitempty"`
	Store   Store   `koanf:"store" yaml:"store" json:"store,omitempty"`
	Session Session `koanf:"session" yaml:"session" json:"session,omitempty"`
	Log     Log     `koanf:"log" yaml:"log" json:"log,omitempty"`
	Metrics Metrics `koanf:"metrics" yaml:"metrics" json:"metrics,omitempty"`
}

// API configures the Team API client.
type API struct {
	// BaseURL is the server root; "/api" is appended by the client.
	BaseURL   string        `koanf:"base_url" yaml:"base_url" json:"base_url,omitempty" jsonschema:"description=Team API server root without the /api suffix,format=uri"`
	Timeout   time.Duration `koanf:"timeout" yaml:"timeout" json:"timeout,omitempty" jsonschema:"type=string,description=Per-request timeout such as 30s; 0 disables it"`
	UserAgent string        `koanf:"user_agent" yaml:"user_agent" json:"user_agent,omitempty"`
}

// Store selects and configures the credential store backend.
type Store struct {
	Backend  string   `koanf:"backend" yaml:"backend" json:"backend,omitempty" jsonschema:"enum=file,enum=memory,enum=redis,enum=sqlite,enum=postgres"`
	Path     string   `koanf:"path" yaml:"path" json:"path,omitempty" jsonschema:"description=Token file or SQLite database path; defaults to the XDG state directory"`
	Redis    Redis    `koanf:"redis" yaml:"redis" json:"redis,omitempty"`
	Postgres Postgres `koanf:"postgres" yaml:"postgres" json:"postgres,omitempty"`
}

// Redis configures the Redis credential store.
type Redis struct {
	Addr     string        `koanf:"addr" yaml:"addr" json:"addr,omitempty"`
	Password string        `koanf:"password" yaml:"password" json:"password,omitempty"`
	DB       int           `koanf:"db" yaml:"db" json:"db,omitempty" jsonschema:"minimum=0"`
	Prefix   string        `koanf:"prefix" yaml:"prefix" json:"prefix,omitempty"`
	Timeout  time.Duration `koanf:"timeout" yaml:"timeout" json:"timeout,omitempty" jsonschema:"type=string"`
}

// Postgres configures the PostgreSQL credential store.
type Postgres struct {
	DSN string `koanf:"dsn" yaml:"dsn" json:"dsn,omitempty"`
}

// Session tunes the session state machine.
type Session struct {
	// RestoreRetries retries network failures during start-up restore.
	// 0 keeps the clear-on-first-failure behavior.
	RestoreRetries  int           `koanf:"restore_retries" yaml:"restore_retries" json:"restore_retries,omitempty" jsonschema:"minimum=0"`
	RestoreBackoff  time.Duration `koanf:"restore_backoff" yaml:"restore_backoff" json:"restore_backoff,omitempty" jsonschema:"type=string"`
	RefreshInterval time.Duration `koanf:"refresh_interval" yaml:"refresh_interval" json:"refresh_interval,omitempty" jsonschema:"type=string"`
}

// Log configures slog output.
type Log struct {
	Format string `koanf:"format" yaml:"format" json:"format,omitempty" jsonschema:"enum=json,enum=text"`
	Level  string `koanf:"level" yaml:"level" json:"level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// Metrics configures the watcher's observability endpoint.
type Metrics struct {
	// Addr is the listen address; empty disables the endpoint.
	Addr string `koanf:"addr" yaml:"addr" json:"addr,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: API{
			BaseURL:   "http://localhost:8001",
			UserAgent: "teamauth",
		},
		Store: Store{
			Backend: BackendFile,
			Redis: Redis{
				Addr:    "localhost:6379",
				Prefix:  "teamauth:",
				Timeout: 2 * time.Second,
			},
		},
		Session: Session{
			RestoreBackoff:  500 * time.Millisecond,
			RefreshInterval: 5 * time.Minute,
		},
		Log: Log{
			Format: "text",
			Level:  "info",
		},
		Metrics: Metrics{
			Addr: "127.0.0.1:9102",
		},
	}
}

// Validate checks cross-field constraints the schema can't express.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return oops.Code("CONFIG_INVALID").
			With("key", "api.base_url").
			With("value", c.API.BaseURL).
			Errorf("api.base_url must be an absolute http(s) URL")
	}
	if c.API.Timeout < 0 {
		return oops.Code("CONFIG_INVALID").With("key", "api.timeout").Errorf("api.timeout cannot be negative")
	}

	switch c.Store.Backend {
	case BackendFile, BackendMemory, BackendSQLite:
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			return oops.Code("CONFIG_INVALID").With("key", "store.redis.addr").Errorf("store.redis.addr is required for the redis backend")
		}
	case BackendPostgres:
		if c.Store.Postgres.DSN == "" {
			return oops.Code("CONFIG_INVALID").With("key", "store.postgres.dsn").Errorf("store.postgres.dsn is required for the postgres backend")
		}
	default:
		return oops.Code("CONFIG_INVALID").
			With("key", "store.backend").
			With("value", c.Store.Backend).
			Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Session.RestoreRetries < 0 {
		return oops.Code("CONFIG_INVALID").With("key", "session.restore_retries").Errorf("session.restore_retries cannot be negative")
	}
	if c.Session.RestoreRetries > 0 && c.Session.RestoreBackoff <= 0 {
		return oops.Code("CONFIG_INVALID").With("key", "session.restore_backoff").Errorf("session.restore_backoff must be positive when retries are enabled")
	}

	if err := logging.ValidateFormat(c.Log.Format); err != nil {
		return oops.Code("CONFIG_INVALID").With("key", "log.format").Wrap(err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return oops.Code("CONFIG_INVALID").With("key", "log.level").Wrap(err)
	}
	return nil
}
