// Package config provides configuration management for the application.
package config

import (
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
}

// UpstreamConfig holds configuration for the upstream chat-completion API
type UpstreamConfig struct {
	// APIKey is the secret bearer token. Its absence is not a startup error;
	// the handler rejects requests with 500 until it is set.
	APIKey string

	// Model is the chat model identifier attached to every upstream payload
	Model string

	// BaseURL overrides the upstream API base URL (tests, proxies)
	BaseURL string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Format string // "json" or "pretty"
}

// MetricsConfig holds Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool
}

// APIKey implements core.CredentialSource. The value is read from the loaded
// configuration; it is immutable for the life of the process.
func (c *Config) APIKey() string {
	return c.Upstream.APIKey
}

// Load reads configuration from an optional .env file and the environment
func Load() (*Config, error) {
	// Load .env file using Viper (optional, won't fail if not found)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("CHAT_MODEL", "gpt-4o-mini")
	viper.SetDefault("UPSTREAM_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("METRICS_ENABLED", true)

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("PORT"),
		},
		Upstream: UpstreamConfig{
			APIKey:  viper.GetString("OPENAI_API_KEY"),
			Model:   viper.GetString("CHAT_MODEL"),
			BaseURL: viper.GetString("UPSTREAM_BASE_URL"),
		},
		Logging: LoggingConfig{
			Format: viper.GetString("LOG_FORMAT"),
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("METRICS_ENABLED"),
		},
	}

	return cfg, nil
}
