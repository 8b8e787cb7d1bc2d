// Package config loads the server configuration from an optional YAML file.
// Command-line flags and PANTRY_* environment variables are layered on top
// by cmd/pantry.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server configuration.
type Config struct {
	Addr      string          `yaml:"addr"`
	DB        string          `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Server    ServerConfig    `yaml:"server"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
	// File, when set, receives a copy of every log line.
	File string `yaml:"file"`
}

// AuthConfig controls bearer-token auth on the item and recipe routes.
type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"`
	AdminUser string `yaml:"admin_user"`
}

// RateLimitConfig is a global token bucket. RPS 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// ServerConfig holds HTTP server timeouts.
type ServerConfig struct {
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Addr: ":8000",
		DB:   "pantry.sqlite3",
		Log: LogConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			AdminUser: "admin",
		},
		RateLimit: RateLimitConfig{
			RPS:   50,
			Burst: 100,
		},
		Server: ServerConfig{
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return errors.New("addr must not be empty")
	case strings.TrimSpace(c.DB) == "":
		return errors.New("db must not be empty")
	case !logLevels[strings.ToLower(c.Log.Level)]:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	case c.Auth.Enabled && strings.TrimSpace(c.Auth.AdminUser) == "":
		return errors.New("auth.admin_user must not be empty when auth is enabled")
	case c.RateLimit.RPS < 0:
		return errors.New("rate_limit.rps must not be negative")
	case c.RateLimit.Burst < 0:
		return errors.New("rate_limit.burst must not be negative")
	case c.RateLimit.RPS > 0 && c.RateLimit.Burst == 0:
		return errors.New("rate_limit.burst must be positive when rate limiting is enabled")
	case c.Server.ShutdownTimeout < 0:
		return errors.New("server.shutdown_timeout must not be negative")
	}
	return nil
}
