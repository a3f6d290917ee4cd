package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	// HTTP server settings
	HTTP struct {
		Address string `yaml:"address"`
		Port    string `yaml:"port"`
	} `yaml:"http"`

	// Public settings describe how players reach this service. They feed
	// the base URL prefixed to every redirect link, resolved once at start.
	Public struct {
		Scheme string `yaml:"scheme"`
		Host   string `yaml:"host"`
		Port   string `yaml:"port"`
	} `yaml:"public"`

	// Store settings
	Store struct {
		Backend string `yaml:"backend"` // "file" or "bolt"
		Path    string `yaml:"path"`
	} `yaml:"store"`

	// ChaosCLI settings for the external instance-management binary
	ChaosCLI struct {
		Binary        string        `yaml:"binary"`
		ManageTimeout time.Duration `yaml:"manage_timeout"`
		QueryTimeout  time.Duration `yaml:"query_timeout"`
	} `yaml:"chaos_cli"`

	// Probe settings for source URL liveness checks
	Probe struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"probe"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// Store backends
const (
	StoreBackendFile = "file"
	StoreBackendBolt = "bolt"
)

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTP.Address == "" {
		errors = append(errors, "HTTP address is required")
	}
	if c.HTTP.Port == "" {
		errors = append(errors, "HTTP port is required")
	}

	if c.Public.Scheme != "http" && c.Public.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("Public scheme must be http or https, got %q", c.Public.Scheme))
	}
	if c.Public.Host == "" {
		errors = append(errors, "Public host is required")
	}

	if c.Store.Backend != StoreBackendFile && c.Store.Backend != StoreBackendBolt {
		errors = append(errors, fmt.Sprintf("Store backend must be file or bolt, got %q", c.Store.Backend))
	}
	if c.Store.Path == "" {
		errors = append(errors, "Store path is required")
	}

	if c.ChaosCLI.ManageTimeout <= 0 {
		errors = append(errors, "Chaos CLI manage timeout must be positive")
	}
	if c.ChaosCLI.QueryTimeout <= 0 {
		errors = append(errors, "Chaos CLI query timeout must be positive")
	}

	if c.Probe.Timeout <= 0 {
		errors = append(errors, "Probe timeout must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Default returns a Config with sensible default values
func Default() *Config {
	cfg := &Config{}

	cfg.HTTP.Address = "127.0.0.1"
	cfg.HTTP.Port = "8080"

	cfg.Public.Scheme = "http"
	cfg.Public.Host = "127.0.0.1"
	cfg.Public.Port = "8080"

	cfg.Store.Backend = StoreBackendFile
	cfg.Store.Path = "configurations.yaml"

	cfg.ChaosCLI.Binary = "" // Empty disables instance management
	cfg.ChaosCLI.ManageTimeout = 2 * time.Minute
	cfg.ChaosCLI.QueryTimeout = 30 * time.Second

	cfg.Probe.Timeout = 10 * time.Second

	cfg.LogLevel = "info"

	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load loads configuration from a file (if present) and applies environment
// variable overrides
func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); err == nil {
		cfg, err = LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg = Default()
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides overrides file values with environment variables
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		cfg.HTTP.Port = v
	}
	if v := os.Getenv("PUBLIC_SCHEME"); v != "" {
		cfg.Public.Scheme = v
	}
	if v := os.Getenv("PUBLIC_HOST"); v != "" {
		cfg.Public.Host = v
	}
	if v := os.Getenv("PUBLIC_PORT"); v != "" {
		cfg.Public.Port = v
	}
	if v := os.Getenv("STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("CHAOS_CLI_BIN"); v != "" {
		cfg.ChaosCLI.Binary = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
