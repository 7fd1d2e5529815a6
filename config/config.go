// Package config holds client configuration for the pharmakit SDK.
// It supports three-layer configuration priority:
//  1. Default values (lowest priority)
//  2. Environment variables (medium priority)
//  3. Functional options (highest priority)
//
// A .env file is loaded first when present, and a YAML config file can be
// layered in with WithConfigFile; the file sits between the environment and
// the options, so explicit options stay the highest priority.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/medleaf/pharmakit"
)

// Config holds all configuration options for the pharmakit client.
type Config struct {
	// API configuration
	BaseURL     string        `yaml:"base_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	// Product detail and related-product reads carry their own shorter
	// budget so a slow catalog read cannot hang a product page.
	ProductTimeout time.Duration `yaml:"product_timeout"`

	// Storage configuration for session and guest-cart persistence
	Storage StorageConfig `yaml:"storage"`

	// Telemetry configuration (optional)
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`

	// configFile is resolved by NewConfig after options are applied.
	configFile string
}

// StorageConfig selects the session store backend.
type StorageConfig struct {
	Provider string        `yaml:"provider"` // "memory" or "redis"
	RedisURL string        `yaml:"redis_url"`
	TTL      time.Duration `yaml:"ttl"`
}

// TelemetryConfig controls the optional OpenTelemetry bootstrap.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"` // OTLP gRPC endpoint; empty means stdout exporter
	Service  string `yaml:"service"`
}

// LoggingConfig controls log verbosity for loggers the SDK constructs.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Option is a functional option for Config
type Option func(*Config)

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:5000",
		HTTPTimeout:    30 * time.Second,
		ProductTimeout: 5 * time.Second,
		Storage: StorageConfig{
			Provider: "memory",
			TTL:      24 * time.Hour,
		},
		Telemetry: TelemetryConfig{
			Enabled: false,
			Service: "pharmakit",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFromEnv applies PHARMAKIT_* environment variables over the current
// values. A .env file in the working directory is loaded first when present;
// real environment variables win over .env entries (godotenv semantics).
func (c *Config) LoadFromEnv() error {
	_ = godotenv.Load()

	if v := os.Getenv("PHARMAKIT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("PHARMAKIT_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PHARMAKIT_HTTP_TIMEOUT: %w", pharmakit.ErrInvalidConfiguration)
		}
		c.HTTPTimeout = d
	}
	if v := os.Getenv("PHARMAKIT_PRODUCT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PHARMAKIT_PRODUCT_TIMEOUT: %w", pharmakit.ErrInvalidConfiguration)
		}
		c.ProductTimeout = d
	}
	if v := os.Getenv("PHARMAKIT_STORAGE_PROVIDER"); v != "" {
		c.Storage.Provider = v
	}
	if v := os.Getenv("PHARMAKIT_REDIS_URL"); v != "" {
		c.Storage.RedisURL = v
	}
	if v := os.Getenv("PHARMAKIT_STORAGE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PHARMAKIT_STORAGE_TTL: %w", pharmakit.ErrInvalidConfiguration)
		}
		c.Storage.TTL = d
	}
	if v := os.Getenv("PHARMAKIT_TELEMETRY_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			c.Telemetry.Enabled = b
		}
	}
	if v := os.Getenv("PHARMAKIT_OTEL_ENDPOINT"); v != "" {
		c.Telemetry.Endpoint = v
	}
	if v := os.Getenv("PHARMAKIT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("PHARMAKIT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	return nil
}

// fileConfig mirrors Config for YAML decoding; durations are strings in
// the file ("5s", "1h") and parsed here.
type fileConfig struct {
	BaseURL        string `yaml:"base_url"`
	HTTPTimeout    string `yaml:"http_timeout"`
	ProductTimeout string `yaml:"product_timeout"`
	Storage        struct {
		Provider string `yaml:"provider"`
		RedisURL string `yaml:"redis_url"`
		TTL      string `yaml:"ttl"`
	} `yaml:"storage"`
	Telemetry struct {
		Enabled  *bool  `yaml:"enabled"`
		Endpoint string `yaml:"endpoint"`
		Service  string `yaml:"service"`
	} `yaml:"telemetry"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// LoadFromFile layers a YAML config file over the current values. Only
// keys present in the file are applied.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, pharmakit.ErrInvalidConfiguration)
	}

	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if err := applyDuration(&c.HTTPTimeout, fc.HTTPTimeout, path); err != nil {
		return err
	}
	if err := applyDuration(&c.ProductTimeout, fc.ProductTimeout, path); err != nil {
		return err
	}
	if fc.Storage.Provider != "" {
		c.Storage.Provider = fc.Storage.Provider
	}
	if fc.Storage.RedisURL != "" {
		c.Storage.RedisURL = fc.Storage.RedisURL
	}
	if err := applyDuration(&c.Storage.TTL, fc.Storage.TTL, path); err != nil {
		return err
	}
	if fc.Telemetry.Enabled != nil {
		c.Telemetry.Enabled = *fc.Telemetry.Enabled
	}
	if fc.Telemetry.Endpoint != "" {
		c.Telemetry.Endpoint = fc.Telemetry.Endpoint
	}
	if fc.Telemetry.Service != "" {
		c.Telemetry.Service = fc.Telemetry.Service
	}
	if fc.Logging.Level != "" {
		c.Logging.Level = fc.Logging.Level
	}
	if fc.Logging.Format != "" {
		c.Logging.Format = fc.Logging.Format
	}
	return nil
}

func applyDuration(dst *time.Duration, value, path string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("config file %s: duration %q: %w", path, value, pharmakit.ErrInvalidConfiguration)
	}
	*dst = d
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL: %w", pharmakit.ErrMissingConfiguration)
	}
	if c.HTTPTimeout < 0 || c.ProductTimeout < 0 {
		return fmt.Errorf("negative timeout: %w", pharmakit.ErrInvalidConfiguration)
	}
	switch c.Storage.Provider {
	case "memory", "redis":
	default:
		return fmt.Errorf("storage provider %q: %w", c.Storage.Provider, pharmakit.ErrInvalidConfiguration)
	}
	if c.Storage.Provider == "redis" && c.Storage.RedisURL == "" {
		return fmt.Errorf("redis storage requires a redis URL: %w", pharmakit.ErrMissingConfiguration)
	}
	return nil
}

// WithBaseURL sets the API base URL
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithHTTPTimeout sets the default request timeout
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Config) { c.HTTPTimeout = d }
}

// WithProductTimeout sets the product-detail request timeout
func WithProductTimeout(d time.Duration) Option {
	return func(c *Config) { c.ProductTimeout = d }
}

// WithRedisStorage selects the Redis session store
func WithRedisStorage(url string) Option {
	return func(c *Config) {
		c.Storage.Provider = "redis"
		c.Storage.RedisURL = url
	}
}

// WithMemoryStorage selects the in-memory session store
func WithMemoryStorage() Option {
	return func(c *Config) { c.Storage.Provider = "memory" }
}

// WithStorageTTL sets how long persisted session keys live
func WithStorageTTL(d time.Duration) Option {
	return func(c *Config) { c.Storage.TTL = d }
}

// WithTelemetry enables the OpenTelemetry bootstrap
func WithTelemetry(enabled bool, endpoint string) Option {
	return func(c *Config) {
		c.Telemetry.Enabled = enabled
		c.Telemetry.Endpoint = endpoint
	}
}

// WithLogLevel sets the log level
func WithLogLevel(level string) Option {
	return func(c *Config) { c.Logging.Level = level }
}

// WithConfigFile layers a YAML file into the configuration. The file sits
// below the other options in priority, so an explicit option always wins
// over a file value; file errors are reported by NewConfig.
func WithConfigFile(path string) Option {
	return func(c *Config) { c.configFile = path }
}

// NewConfig builds a Config layered lowest to highest: defaults,
// environment, config file (when requested), then functional options.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}

	// Resolve the config file path on a scratch copy so the file can be
	// layered in before the options themselves take effect.
	scratch := *cfg
	for _, opt := range opts {
		opt(&scratch)
	}
	if scratch.configFile != "" {
		if err := cfg.LoadFromFile(scratch.configFile); err != nil {
			return nil, err
		}
	}

	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
