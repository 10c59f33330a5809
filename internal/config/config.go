// Package config provides configuration management for the pick advisor.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Provider   ProviderConfig   `mapstructure:"provider" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
	Markets    []string         `mapstructure:"markets" validate:"required,min=1,markets"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ProviderConfig represents the prediction provider configuration
type ProviderConfig struct {
	URL               string  `mapstructure:"url" validate:"required,url"`
	APIKey            string  `mapstructure:"api_key"`
	Sport             string  `mapstructure:"sport" validate:"required"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts     int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimit         float64 `mapstructure:"rate_limit" validate:"gte=0"`
	CircuitBreakerMax int     `mapstructure:"circuit_breaker_max" validate:"gte=0"`
	CooldownSeconds   int     `mapstructure:"cooldown_seconds" validate:"gte=0"`
	CacheEnabled      bool    `mapstructure:"cache_enabled"`
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"required_if=CacheEnabled true,gte=0"`
	CacheMaxSize      int     `mapstructure:"cache_max_size" validate:"required_if=CacheEnabled true,gte=0"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort     int      `mapstructure:"health_port" validate:"required,min=1,max=65535"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ThresholdsConfig names an optional file replacing the built-in threshold table
type ThresholdsConfig struct {
	File string `mapstructure:"file"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// SchedulerConfig holds cron expressions for background jobs
type SchedulerConfig struct {
	ProviderProbe string `mapstructure:"provider_probe" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Timeout returns the provider request timeout
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// CacheTTL returns the prediction cache lifetime
func (p ProviderConfig) CacheTTL() time.Duration {
	return time.Duration(p.CacheTTLSeconds) * time.Second
}

// Cooldown returns how long the circuit breaker stays open
func (p ProviderConfig) Cooldown() time.Duration {
	return time.Duration(p.CooldownSeconds) * time.Second
}

// ServerAddress returns the listen address of the API server
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
