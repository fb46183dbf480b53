// Package config provides configuration management for the keiba-features
// service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Features  FeaturesConfig  `mapstructure:"features" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// FeaturesConfig represents the feature engine parameters
type FeaturesConfig struct {
	// SinceYear bounds population rollups; entity lookups span all seasons.
	SinceYear int `mapstructure:"since_year" validate:"required,gte=1954"`
	// MinRaces is the minimum sample size for a partition to be reported
	// or ranked.
	MinRaces int `mapstructure:"min_races" validate:"required,gt=0"`
	// MaxPedigreeDepth caps ancestry expansion; requests beyond it clamp.
	MaxPedigreeDepth int `mapstructure:"max_pedigree_depth" validate:"required,min=1,max=3"`
	// CacheTTLSeconds bounds the staleness of cached population rollups.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// SchedulerConfig represents the rollup refresh scheduling
type SchedulerConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	RollupRefresh string `mapstructure:"rollup_refresh"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// CacheTTL returns the rollup cache TTL as a duration.
func (f FeaturesConfig) CacheTTL() time.Duration {
	return time.Duration(f.CacheTTLSeconds) * time.Second
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
