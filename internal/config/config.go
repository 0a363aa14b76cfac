// Package config handles application configuration. Values come from
// built-in defaults, optionally overlaid by a YAML file named in
// BLOCKPRESS_CONFIG, and finally by environment variables, which always win.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Env      string `yaml:"env"` // "development", "production", "testing"
	SiteName string `yaml:"site_name"`
	LogLevel string `yaml:"log_level"`

	// PostgreSQL connection
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`

	// Valkey (Redis-compatible cache)
	ValkeyHost     string `yaml:"valkey_host"`
	ValkeyPort     string `yaml:"valkey_port"`
	ValkeyPassword string `yaml:"valkey_password"`

	// S3-compatible object storage for block images
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3Region    string `yaml:"s3_region"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`
	S3Bucket    string `yaml:"s3_bucket"`
	S3PublicURL string `yaml:"s3_public_url"`

	// AssetBaseURL serves images without S3 credentials when set.
	AssetBaseURL string `yaml:"asset_base_url"`

	// Rendering
	ResolveWait     time.Duration `yaml:"resolve_wait"`
	PageCacheTTL    time.Duration `yaml:"page_cache_ttl"`
	DefaultLanguage string        `yaml:"default_language"`
}

// Default returns the development defaults.
func Default() *Config {
	return &Config{
		Host:     "0.0.0.0",
		Port:     "8080",
		Env:      "development",
		SiteName: "BlockPress",
		LogLevel: "info",

		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "blockpress",
		DBPassword: "changeme",
		DBName:     "blockpress",

		ValkeyHost: "localhost",
		ValkeyPort: "6379",

		S3Region: "us-east-1",

		ResolveWait:     250 * time.Millisecond,
		PageCacheTTL:    5 * time.Minute,
		DefaultLanguage: "en",
	}
}

// LoadFromFile reads a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Load builds the configuration from defaults, the optional file named by
// BLOCKPRESS_CONFIG and the environment. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	base := Default()
	if path := os.Getenv("BLOCKPRESS_CONFIG"); path != "" {
		fromFile, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		base = fromFile
		slog.Debug("config file loaded", "path", path)
	}

	cfg := &Config{
		Host:     envOrDefault("APP_HOST", base.Host),
		Port:     envOrDefault("APP_PORT", base.Port),
		Env:      envOrDefault("APP_ENV", base.Env),
		SiteName: envOrDefault("SITE_NAME", base.SiteName),
		LogLevel: envOrDefault("LOG_LEVEL", base.LogLevel),

		DBHost:     envOrDefault("POSTGRES_HOST", base.DBHost),
		DBPort:     envOrDefault("POSTGRES_PORT", base.DBPort),
		DBUser:     envOrDefault("POSTGRES_USER", base.DBUser),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", base.DBPassword),
		DBName:     envOrDefault("POSTGRES_DB", base.DBName),

		ValkeyHost:     envOrDefault("VALKEY_HOST", base.ValkeyHost),
		ValkeyPort:     envOrDefault("VALKEY_PORT", base.ValkeyPort),
		ValkeyPassword: envOrDefault("VALKEY_PASSWORD", base.ValkeyPassword),

		S3Endpoint:  envOrDefault("S3_ENDPOINT", base.S3Endpoint),
		S3Region:    envOrDefault("S3_REGION", base.S3Region),
		S3AccessKey: envOrDefault("S3_ACCESS_KEY", base.S3AccessKey),
		S3SecretKey: envOrDefault("S3_SECRET_KEY", base.S3SecretKey),
		S3Bucket:    envOrDefault("S3_BUCKET", base.S3Bucket),
		S3PublicURL: envOrDefault("S3_PUBLIC_URL", base.S3PublicURL),

		AssetBaseURL: envOrDefault("ASSET_BASE_URL", base.AssetBaseURL),

		DefaultLanguage: envOrDefault("DEFAULT_LANGUAGE", base.DefaultLanguage),
	}

	var err error
	if cfg.ResolveWait, err = durationOrDefault("RESOLVE_WAIT", base.ResolveWait); err != nil {
		return nil, err
	}
	if cfg.PageCacheTTL, err = durationOrDefault("PAGE_CACHE_TTL", base.PageCacheTTL); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Env == "production" && c.DBPassword == "changeme" {
		return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}
	if c.ResolveWait < 0 {
		return fmt.Errorf("RESOLVE_WAIT must not be negative")
	}
	if c.PageCacheTTL < 0 {
		return fmt.Errorf("PAGE_CACHE_TTL must not be negative")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasS3 reports whether S3 credentials are configured.
func (c *Config) HasS3() bool {
	return c.S3AccessKey != "" && c.S3SecretKey != ""
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
	}
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// durationOrDefault parses a duration environment variable such as "250ms".
func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
