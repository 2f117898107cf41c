// Package config loads pptmcp configuration from a YAML file with
// environment overrides. Missing files fall back to defaults so the
// server runs with zero setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all pptmcp configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// PowerPoint connection settings
	PowerPoint PowerPointConfig `yaml:"powerpoint"`

	// Executor settings
	Executor ExecutorConfig `yaml:"executor"`

	// Transport settings
	Server ServerConfig `yaml:"server"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// PowerPointConfig configures how the server reaches the application.
type PowerPointConfig struct {
	ProgID string `yaml:"prog_id"`
	// Visible forces window visibility on connect when set. Leave unset
	// to keep whatever state the running instance has.
	Visible        *bool  `yaml:"visible"`
	ConnectRetries int    `yaml:"connect_retries"`
	ConnectBackoff string `yaml:"connect_backoff"`
}

// ExecutorConfig configures the single-threaded COM executor.
type ExecutorConfig struct {
	CallTimeout        string `yaml:"call_timeout"`
	StallCeiling       string `yaml:"stall_ceiling"`
	StallCheckInterval string `yaml:"stall_check_interval"`
	DrainOnShutdown    bool   `yaml:"drain_on_shutdown"`
}

// ServerConfig configures the MCP transport.
type ServerConfig struct {
	Transport string `yaml:"transport"` // stdio, http
	HTTPAddr  string `yaml:"http_addr"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	File   string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "pptmcp",
		Version: "1.0.0",

		PowerPoint: PowerPointConfig{
			ProgID:         "PowerPoint.Application",
			ConnectRetries: 1,
			ConnectBackoff: "500ms",
		},

		Executor: ExecutorConfig{
			CallTimeout:        "30s",
			StallCeiling:       "5m",
			StallCheckInterval: "15s",
			DrainOnShutdown:    true,
		},

		Server: ServerConfig{
			Transport: "stdio",
			HTTPAddr:  "localhost:8356",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if id := os.Getenv("PPTMCP_PROG_ID"); id != "" {
		c.PowerPoint.ProgID = id
	}
	if transport := os.Getenv("PPTMCP_TRANSPORT"); transport != "" {
		c.Server.Transport = transport
	}
	if addr := os.Getenv("PPTMCP_HTTP_ADDR"); addr != "" {
		c.Server.HTTPAddr = addr
	}
	if level := os.Getenv("PPTMCP_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

func (c *Config) validate() error {
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("unknown transport %q, expected stdio or http", c.Server.Transport)
	}
	if c.PowerPoint.ConnectRetries < 0 {
		return fmt.Errorf("connect_retries must not be negative")
	}
	return nil
}

// GetCallTimeout returns the per-call timeout as a duration.
func (c *Config) GetCallTimeout() time.Duration {
	return parseDuration(c.Executor.CallTimeout, 30*time.Second)
}

// GetStallCeiling returns the stall supervisor ceiling as a duration.
func (c *Config) GetStallCeiling() time.Duration {
	return parseDuration(c.Executor.StallCeiling, 5*time.Minute)
}

// GetStallCheckInterval returns the supervisor poll interval as a duration.
func (c *Config) GetStallCheckInterval() time.Duration {
	return parseDuration(c.Executor.StallCheckInterval, 15*time.Second)
}

// GetConnectBackoff returns the pause between connect cycles.
func (c *Config) GetConnectBackoff() time.Duration {
	return parseDuration(c.PowerPoint.ConnectBackoff, 500*time.Millisecond)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
