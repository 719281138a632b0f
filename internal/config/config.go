package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Admin     AdminConfig     `yaml:"admin"`
	Turnstile TurnstileConfig `yaml:"turnstile"`
	Notify    NotifyConfig    `yaml:"notify"`
	CORS      CORSConfig      `yaml:"cors"`
	Log       LogConfig       `yaml:"log"`

	// Environment is "production", "staging", or "development". Error
	// responses include diagnostic details only outside production.
	Environment string `yaml:"environment"`
}

// IsProduction reports whether the service runs with production hardening
// (no diagnostic detail in 500 bodies).
func (c *Config) IsProduction() bool {
	return c.Environment == "" || c.Environment == "production"
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// In a container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// AdminConfig holds the shared-secret gate for the admin listing endpoint.
type AdminConfig struct {
	APIKey string `yaml:"api_key"`
}

// TurnstileConfig holds Cloudflare Turnstile verification settings.
// An empty SecretKey disables verification entirely.
type TurnstileConfig struct {
	SecretKey      string `yaml:"secret_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c TurnstileConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// NotifyConfig holds notification email settings. Exactly one provider is
// selected at startup, by priority: webhook, then SparkPost, then SES,
// then log-only.
type NotifyConfig struct {
	// Recipient of the new-submission notification email.
	To        string `yaml:"to"`
	FromName  string `yaml:"from_name"`
	FromEmail string `yaml:"from_email"`

	Webhook   WebhookConfig   `yaml:"webhook"`
	SparkPost SparkPostConfig `yaml:"sparkpost"`
	SES       SESConfig       `yaml:"ses"`
}

// WebhookConfig holds settings for a generic webhook-style email relay.
type WebhookConfig struct {
	URL            string `yaml:"url"`
	AuthToken      string `yaml:"auth_token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c WebhookConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SparkPostConfig holds SparkPost API configuration
type SparkPostConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured timeout as a duration
func (c SparkPostConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SESConfig holds AWS SES API configuration
type SESConfig struct {
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// CORSConfig holds allowed browser origins for the public submit endpoint.
type CORSConfig struct {
	// Origins is the explicit allow-list of production origins.
	Origins []string `yaml:"origins"`
	// PreviewSuffix additionally allows preview-deployment origins by
	// suffix match, e.g. ".pages.dev". Empty disables the pattern.
	PreviewSuffix string `yaml:"preview_suffix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Turnstile.BaseURL == "" {
		cfg.Turnstile.BaseURL = "https://challenges.cloudflare.com/turnstile/v0"
	}
	if cfg.Turnstile.TimeoutSeconds == 0 {
		cfg.Turnstile.TimeoutSeconds = 10
	}
	if cfg.Notify.Webhook.TimeoutSeconds == 0 {
		cfg.Notify.Webhook.TimeoutSeconds = 15
	}
	if cfg.Notify.SparkPost.BaseURL == "" {
		cfg.Notify.SparkPost.BaseURL = "https://api.sparkpost.com/api/v1"
	}
	if cfg.Notify.SparkPost.TimeoutSeconds == 0 {
		cfg.Notify.SparkPost.TimeoutSeconds = 30
	}
	if cfg.Notify.SES.Region == "" {
		cfg.Notify.SES.Region = "us-east-1"
	}
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("ADMIN_API_KEY"); v != "" {
		cfg.Admin.APIKey = v
	}
	if v := os.Getenv("TURNSTILE_SECRET_KEY"); v != "" {
		cfg.Turnstile.SecretKey = v
	}
	if v := os.Getenv("NOTIFY_TO"); v != "" {
		cfg.Notify.To = v
	}
	if v := os.Getenv("NOTIFY_WEBHOOK_URL"); v != "" {
		cfg.Notify.Webhook.URL = v
	}
	if v := os.Getenv("NOTIFY_WEBHOOK_TOKEN"); v != "" {
		cfg.Notify.Webhook.AuthToken = v
	}
	if v := os.Getenv("SPARKPOST_API_KEY"); v != "" {
		cfg.Notify.SparkPost.APIKey = v
	}
	if v := os.Getenv("SPARKPOST_BASE_URL"); v != "" {
		cfg.Notify.SparkPost.BaseURL = v
	}
	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.Notify.SES.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.Notify.SES.SecretKey = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.Notify.SES.Region = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		cfg.Environment = v
	}

	return cfg, nil
}
