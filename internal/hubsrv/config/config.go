// Package config loads and exposes the hubsrv configuration. Configuration
// comes from a TOML file; secrets (database URL, meeting token secret) may
// be overridden through the environment, optionally loaded from a .env file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	HostName       string `toml:"hostname"`        // Hostname for the server
	Port           string `toml:"port"`            // Port for the HTTP listener
	HandleCORS     bool   `toml:"handle_cors"`     // Whether to handle CORS
	RequestTimeout string `toml:"request_timeout"` // Per-request handler timeout
}

// GetRequestTimeout returns the request timeout as time.Duration.
func (s *ServerConfig) GetRequestTimeout() (time.Duration, error) {
	return ParseDuration(s.RequestTimeout)
}

// GetRequestTimeoutOrDefault returns the request timeout, panicking on an
// invalid value. A missing value defaults to 30s.
func (s *ServerConfig) GetRequestTimeoutOrDefault() time.Duration {
	if s.RequestTimeout == "" {
		return 30 * time.Second
	}
	d, err := s.GetRequestTimeout()
	if err != nil {
		panic(fmt.Sprintf("invalid request timeout: %v", err))
	}
	return d
}

// DatabaseConfig holds connection settings for the Postgres store.
type DatabaseConfig struct {
	URL             string `toml:"url"` // overridden by MENTORHUB_DB_URL
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime string `toml:"conn_max_lifetime"`
}

// GetConnMaxLifetime returns the connection lifetime as time.Duration.
// A missing value defaults to 30 minutes.
func (d *DatabaseConfig) GetConnMaxLifetime() (time.Duration, error) {
	if d.ConnMaxLifetime == "" {
		return 30 * time.Minute, nil
	}
	return ParseDuration(d.ConnMaxLifetime)
}

// MeetingConfig holds the live-meeting coordination settings.
type MeetingConfig struct {
	TokenSigningSecret string `toml:"token_signing_secret"` // overridden by MENTORHUB_MEETING_SECRET
	RoomBaseURL        string `toml:"room_base_url"`        // base URL for generated room references
}

// SessionConfig holds session-listing defaults.
type SessionConfig struct {
	DefaultPageSize  int `toml:"default_page_size"`
	MaxPageSize      int `toml:"max_page_size"`
	MaxSlotRangeDays int `toml:"max_slot_range_days"`
}

// ConfigParam holds all configuration parameters for the hub server.
type ConfigParam struct {
	FormatVersion string `toml:"format_version"`

	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Meeting  MeetingConfig  `toml:"meeting"`
	Session  SessionConfig  `toml:"session"`
}

var config *ConfigParam

// Config returns the loaded configuration. LoadConfig or TestInit must be
// called first.
func Config() *ConfigParam {
	return config
}

// LoadConfig reads the configuration file, applies environment overrides,
// and validates the result.
func LoadConfig(path string) error {
	// A .env next to the process is optional.
	_ = godotenv.Load()

	cfg := defaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("unable to decode config file: %w", err)
		}
	}
	applyEnvOverrides(cfg)

	if err := validate(cfg); err != nil {
		return err
	}
	config = cfg
	return nil
}

func defaultConfig() *ConfigParam {
	return &ConfigParam{
		FormatVersion: "1",
		Server: ServerConfig{
			Port:           "8380",
			RequestTimeout: "30s",
		},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
		},
		Session: SessionConfig{
			DefaultPageSize:  20,
			MaxPageSize:      100,
			MaxSlotRangeDays: 60,
		},
	}
}

func applyEnvOverrides(cfg *ConfigParam) {
	if v := os.Getenv("MENTORHUB_DB_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("MENTORHUB_MEETING_SECRET"); v != "" {
		cfg.Meeting.TokenSigningSecret = v
	}
	if v := os.Getenv("MENTORHUB_SERVER_PORT"); v != "" {
		cfg.Server.Port = v
	}
}

func validate(cfg *ConfigParam) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if _, err := cfg.Server.GetRequestTimeout(); cfg.Server.RequestTimeout != "" && err != nil {
		return fmt.Errorf("invalid request timeout: %w", err)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is required (set database.url or MENTORHUB_DB_URL)")
	}
	if cfg.Meeting.TokenSigningSecret == "" {
		return fmt.Errorf("meeting token signing secret is required (set meeting.token_signing_secret or MENTORHUB_MEETING_SECRET)")
	}
	if cfg.Session.DefaultPageSize <= 0 || cfg.Session.MaxPageSize < cfg.Session.DefaultPageSize {
		return fmt.Errorf("invalid session page size configuration")
	}
	return nil
}

// ParseDuration parses a duration string such as "30s" or "5m".
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	return time.ParseDuration(s)
}

// TestInit installs an in-memory configuration for unit tests.
func TestInit() {
	config = defaultConfig()
	config.Database.URL = "postgres://localhost:5432/mentorhub_test"
	config.Meeting.TokenSigningSecret = "test-signing-secret"
	config.Meeting.RoomBaseURL = "https://meet.mentorhub.test/rooms"
}
