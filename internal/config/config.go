// ABOUTME: Configuration loading and parsing for backpack
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete backpack configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Web       WebConfig       `yaml:"web"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// TailscaleConfig holds Tailscale tsnet configuration
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Hostname  string `yaml:"hostname"`
	AuthKey   string `yaml:"auth_key"`
	StateDir  string `yaml:"state_dir"`
	Ephemeral bool   `yaml:"ephemeral"`
	Funnel    bool   `yaml:"funnel"` // Enable public Funnel (implies HTTPS)
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// PasswordScheme selects the password hash: "sha256" (default,
	// compatible with existing rows) or "bcrypt".
	PasswordScheme string `yaml:"password_scheme"`

	OAuthTokenTTL time.Duration `yaml:"-"`
	SessionMaxAge time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	OAuthTokenTTLRaw string `yaml:"oauth_token_ttl"`
	SessionMaxAgeRaw string `yaml:"session_max_age"`
}

// WebConfig holds web app configuration
type WebConfig struct {
	// BaseURL is the external URL shown in connect instructions.
	// If not set, it's derived from the request host.
	BaseURL string `yaml:"base_url"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	// The HTTP address is required unless Tailscale serves the listener
	if !c.Tailscale.Enabled && c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required (or enable tailscale)")
	}

	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	switch c.Auth.PasswordScheme {
	case "", "sha256", "bcrypt":
	default:
		return fmt.Errorf("auth.password_scheme must be sha256 or bcrypt, got %q", c.Auth.PasswordScheme)
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Auth.OAuthTokenTTLRaw != "" {
		cfg.Auth.OAuthTokenTTL, err = time.ParseDuration(cfg.Auth.OAuthTokenTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing oauth_token_ttl %q: %w", cfg.Auth.OAuthTokenTTLRaw, err)
		}
	}

	if cfg.Auth.SessionMaxAgeRaw != "" {
		cfg.Auth.SessionMaxAge, err = time.ParseDuration(cfg.Auth.SessionMaxAgeRaw)
		if err != nil {
			return fmt.Errorf("parsing session_max_age %q: %w", cfg.Auth.SessionMaxAgeRaw, err)
		}
	}

	return nil
}
