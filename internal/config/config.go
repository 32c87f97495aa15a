// Package config loads service configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the file nor the environment sets a
// value. DefaultWebhookEndpoint is the documented fallback target for
// the external processor.
const (
	DefaultPort            = 8080
	DefaultBindAddress     = "0.0.0.0"
	DefaultDataDir         = "data"
	DefaultBodyLimit       = "50M"
	DefaultWebhookEndpoint = "https://hooks.landhud.io/webhook/lead-list-processing"
	DefaultCallbackBase    = "http://localhost:8080"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Webhook WebhookConfig `yaml:"webhook"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bind_address"`
	AllowOrigins string `yaml:"allow_origins"`
	ReadTimeout  int    `yaml:"read_timeout_seconds"`
	WriteTimeout int    `yaml:"write_timeout_seconds"`
	IdleTimeout  int    `yaml:"idle_timeout_seconds"`
	BodyLimit    string `yaml:"body_limit"`
}

// StorageConfig contains record store and blob storage settings.
type StorageConfig struct {
	DataDirectory    string `yaml:"data_directory"`
	UploadsDirectory string `yaml:"uploads_directory"`
	DatabaseFile     string `yaml:"database_file"`
}

// WebhookConfig contains the external processor integration settings.
type WebhookConfig struct {
	// Endpoint is the external processor's inbound webhook.
	Endpoint string `yaml:"endpoint"`
	// CallbackBaseURL is the public base URL the processor uses to
	// reach this service's callback endpoint.
	CallbackBaseURL string `yaml:"callback_base_url"`
}

// LoggingConfig contains logging toggles.
type LoggingConfig struct {
	RequestLogging bool `yaml:"request_logging"`
}

// Load reads the YAML file at path (missing file is fine), applies
// environment overrides, then fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LANDHUD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("LANDHUD_BIND_ADDRESS"); v != "" {
		c.Server.BindAddress = v
	}
	if v := os.Getenv("LANDHUD_ALLOW_ORIGINS"); v != "" {
		c.Server.AllowOrigins = v
	}
	if v := os.Getenv("LANDHUD_DATA_DIR"); v != "" {
		c.Storage.DataDirectory = v
	}
	if v := os.Getenv("LANDHUD_WEBHOOK_ENDPOINT"); v != "" {
		c.Webhook.Endpoint = v
	}
	if v := os.Getenv("LANDHUD_CALLBACK_BASE_URL"); v != "" {
		c.Webhook.CallbackBaseURL = v
	}
	if v := os.Getenv("LANDHUD_REQUEST_LOGGING"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Logging.RequestLogging = enabled
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.BindAddress == "" {
		c.Server.BindAddress = DefaultBindAddress
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 60
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120
	}
	if c.Server.BodyLimit == "" {
		c.Server.BodyLimit = DefaultBodyLimit
	}
	if c.Storage.DataDirectory == "" {
		c.Storage.DataDirectory = DefaultDataDir
	}
	if c.Storage.UploadsDirectory == "" {
		c.Storage.UploadsDirectory = filepath.Join(c.Storage.DataDirectory, "uploads")
	}
	if c.Storage.DatabaseFile == "" {
		c.Storage.DatabaseFile = filepath.Join(c.Storage.DataDirectory, "landhud.duckdb")
	}
	if c.Webhook.Endpoint == "" {
		c.Webhook.Endpoint = DefaultWebhookEndpoint
	}
	if c.Webhook.CallbackBaseURL == "" {
		c.Webhook.CallbackBaseURL = DefaultCallbackBase
	}
}

// EnsureDirectories creates the data and uploads directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Storage.DataDirectory, c.Storage.UploadsDirectory} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}

// ServerAddr returns the host:port listen address.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}
