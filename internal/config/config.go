// Package config manages environment variables.
//
// It reads variables from the process environment (and from a `.env`
// file when one exists), loads them into structured Go types and
// validates that required values are present so the service fails fast
// on bad or missing configuration.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the TODO_ prefix. Keys are lowercased with the
	prefix removed, and nested struct fields are addressed with "." :

		TODO_SERVER.PORT        -> server.port        -> Config.Server.Port
		TODO_DATABASE.SESSION   -> database.session   -> Config.Database.Session
*/

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "TODO_"

// ServiceName tags logs, traces and APM dashboards.
const ServiceName = "todo-backend"

// Session store kinds accepted in database.session.
const (
	// SessionORM runs repository sessions as gorm transactions.
	SessionORM = "orm"
	// SessionPgx runs repository sessions as raw pgx transactions.
	SessionPgx = "pgx"
	// SessionMemory keeps todos in process memory. No database is opened.
	SessionMemory = "memory"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected by LoadConfig.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables the limiter.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig selects the session store and carries the PostgreSQL
// connection parameters and pool tuning.
//
// Connection fields are only required when the store is backed by
// PostgreSQL, i.e. unless Session is "memory".
type DatabaseConfig struct {
	Session         string `koanf:"session" validate:"required,oneof=orm pgx memory"`
	Host            string `koanf:"host" validate:"required_unless=Session memory"`
	Port            int    `koanf:"port" validate:"required_unless=Session memory"`
	User            string `koanf:"user" validate:"required_unless=Session memory"`
	Password        string `koanf:"password" validate:"required_unless=Session memory"`
	Name            string `koanf:"name" validate:"required_unless=Session memory"`
	SSLMode         string `koanf:"ssl_mode" validate:"required_unless=Session memory"`
	// MaxOpenConns caps the pool; MinConns is the floor of connections
	// the pool keeps open. Both must fit pgx's int32 pool sizes.
	MaxOpenConns    int `koanf:"max_open_conns" validate:"min=0,max=10000"`
	MinConns        int `koanf:"min_conns" validate:"min=0,max=10000"`
	ConnMaxLifetime int `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime int `koanf:"conn_max_idle_time" validate:"min=0"`
}

// UsesPostgres reports whether the configured session store needs a
// PostgreSQL connection.
func (d DatabaseConfig) UsesPostgres() bool {
	return d.Session != SessionMemory
}

// DSN builds the postgres URL for the configured database.
//
// The password is URL-escaped so characters like ':' or '@' do not break
// the URL structure. Host and port are joined with net.JoinHostPort to
// handle IPv6 literals.
func (d DatabaseConfig) DSN() string {
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		hostPort,
		d.Name,
		d.SSLMode,
	)
}

// LoadConfig loads configuration from environment variables, unmarshals
// it into Config, validates it, applies defaults and returns the result.
//
// Behavior summary:
//   - Loads env vars with prefix TODO_
//   - Unmarshals into Config
//   - Validates required config blocks/fields
//   - Sets default observability if missing
//   - Overrides observability service name + environment
//   - Validates observability config as well
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load initial env variables: %w", err)
	}

	mainConfig := &Config{}

	// "" unmarshals everything from the root.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service naming is fixed so every log line and trace agrees on it.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
