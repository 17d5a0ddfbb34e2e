package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Vision  VisionConfig
	Cache   CacheConfig
	Admin   AdminConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds product catalog API configuration
type CatalogConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Locale  string        `mapstructure:"locale"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// VisionConfig holds AI vision configuration. An empty API key disables the
// vision fallback tier.
type VisionConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	UnitCost float64       `mapstructure:"unit_cost"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds cache-related configuration. Retention governs how long
// records are kept; freshness_window governs when the resolver considers a
// cached record stale and refreshes it in the background.
type CacheConfig struct {
	Type            string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL        string        `mapstructure:"redis_url"`
	Retention       time.Duration `mapstructure:"retention"`
	FreshnessWindow time.Duration `mapstructure:"freshness_window"`
}

// AdminConfig holds the administrative API token
type AdminConfig struct {
	Token string `mapstructure:"token"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/scansafe/")

	// Environment variable settings
	v.SetEnvPrefix("SCANSAFE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("catalog.locale", "en")
	v.SetDefault("catalog.timeout", "10s")

	// Vision defaults
	v.SetDefault("vision.api_key", "")
	v.SetDefault("vision.model", "gpt-4o-mini")
	v.SetDefault("vision.unit_cost", 0.01)
	v.SetDefault("vision.timeout", "45s")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.retention", "2160h")       // 90 days
	v.SetDefault("cache.freshness_window", "720h") // 30 days

	// Admin defaults; an empty token keeps admin routes disabled
	v.SetDefault("admin.token", "")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis'")
	}

	if config.Cache.FreshnessWindow > config.Cache.Retention {
		return fmt.Errorf("cache freshness window (%s) must not exceed retention (%s)",
			config.Cache.FreshnessWindow, config.Cache.Retention)
	}

	if config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL is required")
	}

	return nil
}
