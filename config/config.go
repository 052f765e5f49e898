package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/grocerycompare/backend/internal/domain"
)

// EnvPrefix prefixes every environment variable read by Load, e.g. GROCERY_SERVER_PORT
const EnvPrefix = "GROCERY"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Stores    StoresConfig
	Delivery  DeliveryConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Matching  MatchingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	LogLevel       string   `mapstructure:"log_level"`
}

// StoresConfig holds storefront scraping configuration
type StoresConfig struct {
	Enabled              []string      `mapstructure:"enabled"`
	TescoURL             string        `mapstructure:"tesco_url"`
	SainsburysURL        string        `mapstructure:"sainsburys_url"`
	AsdaURL              string        `mapstructure:"asda_url"`
	UserAgent            string        `mapstructure:"user_agent"`
	Timeout              time.Duration `mapstructure:"timeout"`
	RequestsPerSecond    float64       `mapstructure:"requests_per_second"`
	Burst                int           `mapstructure:"burst"`
	MaxRetries           int           `mapstructure:"max_retries"`
	MaxConcurrentFetches int           `mapstructure:"max_concurrent_fetches"`
}

// DeliveryConfig holds the flat delivery fee of each store
type DeliveryConfig struct {
	Fees map[string]float64 `mapstructure:"fees"`
}

// CacheConfig holds catalog cache configuration
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	MaxEntries int           `mapstructure:"max_entries"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables the limit
}

// MatchingConfig holds matching pipeline configuration
type MatchingConfig struct {
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// Load loads configuration from the environment, an optional .env file and an optional config file
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/grocerycompare/")

	// Environment variable settings
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
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

// loadEnvFile loads KEY=VALUE pairs from ./.env without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.log_level", "info")

	// Storefront defaults
	v.SetDefault("stores.enabled", []string{"tesco", "sainsburys", "asda"})
	v.SetDefault("stores.tesco_url", "https://www.tesco.com")
	v.SetDefault("stores.sainsburys_url", "https://www.sainsburys.co.uk")
	v.SetDefault("stores.asda_url", "https://groceries.asda.com")
	v.SetDefault("stores.user_agent", "Mozilla/5.0")
	v.SetDefault("stores.timeout", "5s")
	v.SetDefault("stores.requests_per_second", 2.0)
	v.SetDefault("stores.burst", 4)
	v.SetDefault("stores.max_retries", 2)
	v.SetDefault("stores.max_concurrent_fetches", 6)

	// Delivery fee defaults
	v.SetDefault("delivery.fees.tesco", 3.00)
	v.SetDefault("delivery.fees.sainsburys", 3.50)
	v.SetDefault("delivery.fees.asda", 2.95)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_entries", 128)
	v.SetDefault("cache.ttl", "15m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)

	// Matching defaults
	v.SetDefault("matching.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required (set %s_SERVER_PORT)", EnvPrefix)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(config.Server.LogLevel)); err != nil {
		return fmt.Errorf("log level must be one of debug, info, warn, error, got: %q", config.Server.LogLevel)
	}

	if len(config.Stores.Enabled) == 0 {
		return fmt.Errorf("at least one store must be enabled")
	}
	for _, store := range config.Stores.Enabled {
		if !slices.Contains(domain.KnownStores, domain.Store(strings.ToLower(store))) {
			return fmt.Errorf("%w: %q", domain.ErrStoreUnknown, store)
		}
	}

	if config.Stores.Timeout <= 0 {
		return fmt.Errorf("store timeout must be positive, got: %s", config.Stores.Timeout)
	}

	if config.Stores.MaxRetries < 0 {
		return fmt.Errorf("store max retries must not be negative, got: %d", config.Stores.MaxRetries)
	}

	for store, fee := range config.Delivery.Fees {
		if fee < 0 {
			return fmt.Errorf("delivery fee for %s must not be negative, got: %v", store, fee)
		}
	}

	if config.Cache.Enabled && config.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive when the cache is enabled, got: %d", config.Cache.MaxEntries)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}

// LogLevel returns the configured slog level, defaulting to info
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Server.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// EnabledStores returns the enabled stores in configured order
func (c *Config) EnabledStores() []domain.Store {
	stores := make([]domain.Store, 0, len(c.Stores.Enabled))
	for _, s := range c.Stores.Enabled {
		stores = append(stores, domain.Store(strings.ToLower(s)))
	}
	return stores
}

// DeliveryFees returns the delivery fee table keyed by store
func (c *Config) DeliveryFees() map[domain.Store]float64 {
	fees := make(map[domain.Store]float64, len(c.Delivery.Fees))
	for store, fee := range c.Delivery.Fees {
		fees[domain.Store(strings.ToLower(store))] = fee
	}
	return fees
}

// StoreBaseURLs returns the configured storefront origins keyed by store
func (c *Config) StoreBaseURLs() map[domain.Store]string {
	return map[domain.Store]string{
		domain.StoreTesco:      c.Stores.TescoURL,
		domain.StoreSainsburys: c.Stores.SainsburysURL,
		domain.StoreAsda:       c.Stores.AsdaURL,
	}
}
