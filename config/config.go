package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Scraper   ScraperConfig
	Storage   StorageConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ScraperConfig holds product extraction configuration
type ScraperConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	EnableDirect      bool          `mapstructure:"enable_direct"`
	Proxies           []string      `mapstructure:"proxies"` // endpoint templates, target URL is appended encoded
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// StorageConfig holds registry persistence configuration
type StorageConfig struct {
	Type          string `mapstructure:"type"` // "memory", "postgres" or "mongo"
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
}

// AuthConfig holds admin authentication configuration
type AuthConfig struct {
	AdminToken string `mapstructure:"admin_token"`
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	PerIP     int `mapstructure:"per_ip"` // requests per minute, 0 disables
	CacheSize int `mapstructure:"cache_size"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// DefaultProxies are public CORS proxies answering with a JSON envelope
var DefaultProxies = []string{
	"https://api.allorigins.win/get?url=",
	"https://cors-anywhere.herokuapp.com/",
	"https://thingproxy.freeboard.io/fetch/",
}

// DefaultUserAgent is sent on outbound page requests
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/giftregistry/")

	v.SetEnvPrefix("REGISTRY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

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

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment when present.
// Variables already set in the environment win.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values.
// Every key needs a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("scraper.timeout", "15s")
	v.SetDefault("scraper.user_agent", DefaultUserAgent)
	v.SetDefault("scraper.enable_direct", true)
	v.SetDefault("scraper.proxies", DefaultProxies)
	v.SetDefault("scraper.max_body_bytes", 5*1024*1024)
	v.SetDefault("scraper.requests_per_second", 2.0)
	v.SetDefault("scraper.burst", 5)

	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.mongo_uri", "")
	v.SetDefault("storage.mongo_database", "giftregistry")

	v.SetDefault("auth.admin_token", "")

	v.SetDefault("ratelimit.per_ip", 30)
	v.SetDefault("ratelimit.cache_size", 10000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Storage.Type {
	case "memory":
	case "postgres":
		if config.Storage.PostgresDSN == "" {
			return fmt.Errorf("postgres DSN is required when storage type is 'postgres' (set REGISTRY_STORAGE_POSTGRES_DSN)")
		}
	case "mongo":
		if config.Storage.MongoURI == "" {
			return fmt.Errorf("mongo URI is required when storage type is 'mongo' (set REGISTRY_STORAGE_MONGO_URI)")
		}
		if config.Storage.MongoDatabase == "" {
			return fmt.Errorf("mongo database name is required when storage type is 'mongo'")
		}
	default:
		return fmt.Errorf("storage type must be 'memory', 'postgres' or 'mongo', got: %s", config.Storage.Type)
	}

	if config.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper timeout must be positive")
	}
	if config.Scraper.MaxBodyBytes <= 0 {
		return fmt.Errorf("scraper max body bytes must be positive")
	}
	if config.Scraper.RequestsPerSecond <= 0 {
		return fmt.Errorf("scraper requests per second must be positive")
	}
	if config.Scraper.Burst <= 0 {
		return fmt.Errorf("scraper burst must be positive")
	}
	if !config.Scraper.EnableDirect && len(config.Scraper.Proxies) == 0 {
		return fmt.Errorf("at least one transport is required: enable direct fetch or configure proxies")
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit cannot be negative")
	}
	if config.RateLimit.PerIP > 0 && config.RateLimit.CacheSize <= 0 {
		return fmt.Errorf("rate limit cache size must be positive when per-IP limiting is enabled")
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("logging format must be 'json' or 'console', got: %s", config.Logging.Format)
	}

	return nil
}

// ValidateServer checks settings only the HTTP server needs
func (c *Config) ValidateServer() error {
	if c.Auth.AdminToken == "" {
		return fmt.Errorf("admin token is required (set REGISTRY_AUTH_ADMIN_TOKEN)")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
