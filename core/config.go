// Package core provides the shared plumbing for the UI Bridge client SDK:
// configuration, logging and telemetry interfaces, structured errors, and
// client-side state storage.
package core

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the UI Bridge client.
// Values are resolved in precedence order: defaults, then config file,
// then environment variables, then functional options.
type Config struct {
	// BaseURL is the root URL of the UI Bridge server
	BaseURL string `yaml:"base_url"`

	// APIPath is the API prefix prepended to every request path
	APIPath string `yaml:"api_path"`

	// Timeout is the per-request HTTP timeout
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries bounds the number of action attempts in recovery-enabled
	// execution (see the ai package)
	MaxRetries int `yaml:"max_retries"`

	// RecoveryEnabled controls whether failed natural-language actions
	// consult the server-side recovery service
	RecoveryEnabled bool `yaml:"recovery_enabled"`

	// Memory settings
	MemoryProvider string `yaml:"memory_provider"` // "memory" or "redis"
	RedisURL       string `yaml:"redis_url"`

	// Telemetry settings
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Runtime dependencies, never loaded from file or env
	HTTPClient *http.Client `yaml:"-"`
	Logger     Logger       `yaml:"-"`
	Tracer     Telemetry    `yaml:"-"`
	Memory     Memory       `yaml:"-"`

	configFile string
}

// TelemetryConfig contains OpenTelemetry settings
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Endpoint    string `yaml:"endpoint"`
}

// Option is a functional option for configuring the client.
// Options are applied in order and can return an error if the
// configuration is invalid.
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults.
// These can be overridden by a config file, environment variables,
// or functional options.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "http://localhost:9876",
		APIPath:         "/ui-bridge",
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RecoveryEnabled: true,
		MemoryProvider:  "memory",
		Telemetry: TelemetryConfig{
			ServiceName: "uibridge-client",
		},
	}
}

// NewConfig builds a Config from defaults, an optional config file,
// environment variables, and the supplied options, then validates it.
func NewConfig(opts ...Option) (*Config, error) {
	// Apply options to a scratch config first so a config file supplied
	// via WithConfigFile participates in the precedence chain.
	scratch := DefaultConfig()
	for _, opt := range opts {
		if err := opt(scratch); err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()

	path := scratch.configFile
	if path == "" {
		path = os.Getenv("UIBRIDGE_CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv overrides configuration from UIBRIDGE_* environment variables.
// Unparseable values are ignored so a bad variable never breaks startup.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("UIBRIDGE_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("UIBRIDGE_API_PATH"); v != "" {
		c.APIPath = v
	}
	if v := os.Getenv("UIBRIDGE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
	if v := os.Getenv("UIBRIDGE_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("UIBRIDGE_RECOVERY_ENABLED"); v != "" {
		c.RecoveryEnabled = parseBool(v)
	}
	if v := os.Getenv("UIBRIDGE_MEMORY_PROVIDER"); v != "" {
		c.MemoryProvider = v
	}
	if v := os.Getenv("UIBRIDGE_REDIS_URL"); v != "" {
		c.RedisURL = v
	} else if v := os.Getenv("REDIS_URL"); v != "" && c.RedisURL == "" {
		c.RedisURL = v
	}
	if v := os.Getenv("UIBRIDGE_TELEMETRY_ENABLED"); v != "" {
		c.Telemetry.Enabled = parseBool(v)
	}
	if v := os.Getenv("UIBRIDGE_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" && c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = v
	}
	return nil
}

// LoadFromFile merges configuration from a YAML file.
func (c *Config) LoadFromFile(path string) error {
	cleanPath := filepath.Clean(path)

	ext := filepath.Ext(cleanPath)
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config file extension %s: %w", ext, ErrInvalidConfiguration)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", cleanPath, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", cleanPath, ErrInvalidConfiguration)
	}

	return nil
}

// Validate checks if the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &BridgeError{
			Op:      "Config.Validate",
			Kind:    "config",
			Message: fmt.Sprintf("invalid base URL: %q", c.BaseURL),
			Err:     ErrInvalidConfiguration,
		}
	}

	if c.Timeout <= 0 {
		return &BridgeError{
			Op:      "Config.Validate",
			Kind:    "config",
			Message: fmt.Sprintf("timeout must be positive, got %s", c.Timeout),
			Err:     ErrInvalidConfiguration,
		}
	}

	if c.MaxRetries < 1 {
		return &BridgeError{
			Op:      "Config.Validate",
			Kind:    "config",
			Message: fmt.Sprintf("max retries must be at least 1, got %d", c.MaxRetries),
			Err:     ErrInvalidConfiguration,
		}
	}

	if c.MemoryProvider != "memory" && c.MemoryProvider != "redis" {
		return &BridgeError{
			Op:      "Config.Validate",
			Kind:    "config",
			Message: fmt.Sprintf("unknown memory provider: %q", c.MemoryProvider),
			Err:     ErrInvalidConfiguration,
		}
	}

	if c.MemoryProvider == "redis" && c.RedisURL == "" {
		return &BridgeError{
			Op:      "Config.Validate",
			Kind:    "config",
			Message: "redis memory provider requires a redis URL",
			Err:     ErrMissingConfiguration,
		}
	}

	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// WithBaseURL sets the UI Bridge server base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Config) error {
		if baseURL == "" {
			return fmt.Errorf("base URL cannot be empty: %w", ErrInvalidConfiguration)
		}
		c.BaseURL = strings.TrimRight(baseURL, "/")
		return nil
	}
}

// WithAPIPath sets the API prefix prepended to request paths
func WithAPIPath(path string) Option {
	return func(c *Config) error {
		c.APIPath = strings.TrimRight(path, "/")
		return nil
	}
}

// WithTimeout sets the per-request HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive: %w", ErrInvalidConfiguration)
		}
		c.Timeout = timeout
		return nil
	}
}

// WithHTTPClient supplies a pre-configured HTTP client, e.g. one with an
// instrumented or proxied transport. The client's own timeout is respected.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) error {
		c.HTTPClient = client
		return nil
	}
}

// WithLogger sets the logger used by all SDK components
func WithLogger(logger Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithTelemetry sets the telemetry implementation used for spans and metrics
func WithTelemetry(tracer Telemetry) Option {
	return func(c *Config) error {
		c.Tracer = tracer
		c.Telemetry.Enabled = tracer != nil
		return nil
	}
}

// WithMemory supplies a pre-built Memory store, overriding MemoryProvider
func WithMemory(memory Memory) Option {
	return func(c *Config) error {
		c.Memory = memory
		return nil
	}
}

// WithRedisURL enables the Redis-backed memory store at the given URL
func WithRedisURL(redisURL string) Option {
	return func(c *Config) error {
		c.RedisURL = redisURL
		c.MemoryProvider = "redis"
		return nil
	}
}

// WithMaxRetries bounds the number of action attempts during
// recovery-enabled execution
func WithMaxRetries(maxRetries int) Option {
	return func(c *Config) error {
		if maxRetries < 1 {
			return fmt.Errorf("max retries must be at least 1: %w", ErrInvalidConfiguration)
		}
		c.MaxRetries = maxRetries
		return nil
	}
}

// WithRecoveryEnabled toggles recovery-enabled execution
func WithRecoveryEnabled(enabled bool) Option {
	return func(c *Config) error {
		c.RecoveryEnabled = enabled
		return nil
	}
}

// WithConfigFile loads configuration from a YAML file before env and options
func WithConfigFile(path string) Option {
	return func(c *Config) error {
		c.configFile = path
		return nil
	}
}
