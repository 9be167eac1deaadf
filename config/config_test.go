package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("REGISTRY_SERVER_PORT")
		os.Unsetenv("REGISTRY_SERVER_ENVIRONMENT")
		os.Unsetenv("REGISTRY_SERVER_ALLOWED_ORIGINS")
		os.Unsetenv("REGISTRY_SCRAPER_TIMEOUT")
		os.Unsetenv("REGISTRY_SCRAPER_PROXIES")
		os.Unsetenv("REGISTRY_SCRAPER_ENABLE_DIRECT")
		os.Unsetenv("REGISTRY_STORAGE_TYPE")
		os.Unsetenv("REGISTRY_STORAGE_POSTGRES_DSN")
		os.Unsetenv("REGISTRY_STORAGE_MONGO_URI")
		os.Unsetenv("REGISTRY_AUTH_ADMIN_TOKEN")
		os.Unsetenv("REGISTRY_RATELIMIT_PER_IP")
		os.Unsetenv("REGISTRY_LOGGING_FORMAT")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Scraper.Timeout != 15*time.Second {
			t.Errorf("Scraper.Timeout = %v, want 15s", cfg.Scraper.Timeout)
		}
		if !cfg.Scraper.EnableDirect {
			t.Errorf("Scraper.EnableDirect = false, want true")
		}
		if len(cfg.Scraper.Proxies) != len(DefaultProxies) {
			t.Errorf("len(Scraper.Proxies) = %d, want %d", len(cfg.Scraper.Proxies), len(DefaultProxies))
		}
		if cfg.Scraper.UserAgent != DefaultUserAgent {
			t.Errorf("Scraper.UserAgent = %s, want default", cfg.Scraper.UserAgent)
		}
		if cfg.Storage.Type != "memory" {
			t.Errorf("Storage.Type = %s, want memory", cfg.Storage.Type)
		}
		if cfg.RateLimit.PerIP != 30 {
			t.Errorf("RateLimit.PerIP = %d, want 30", cfg.RateLimit.PerIP)
		}
		if cfg.Logging.Format != "console" {
			t.Errorf("Logging.Format = %s, want console", cfg.Logging.Format)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("REGISTRY_SERVER_PORT", "9090")
		os.Setenv("REGISTRY_SERVER_ENVIRONMENT", "production")
		os.Setenv("REGISTRY_SCRAPER_TIMEOUT", "5s")
		os.Setenv("REGISTRY_SCRAPER_PROXIES", "https://proxy.one/?u=,https://proxy.two/")
		os.Setenv("REGISTRY_STORAGE_TYPE", "postgres")
		os.Setenv("REGISTRY_STORAGE_POSTGRES_DSN", "postgres://localhost:5432/registry")
		os.Setenv("REGISTRY_AUTH_ADMIN_TOKEN", "secret")
		os.Setenv("REGISTRY_RATELIMIT_PER_IP", "120")
		os.Setenv("REGISTRY_LOGGING_FORMAT", "json")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if !cfg.IsProduction() {
			t.Errorf("IsProduction() = false, want true")
		}
		if cfg.Scraper.Timeout != 5*time.Second {
			t.Errorf("Scraper.Timeout = %v, want 5s", cfg.Scraper.Timeout)
		}
		if len(cfg.Scraper.Proxies) != 2 || cfg.Scraper.Proxies[1] != "https://proxy.two/" {
			t.Errorf("Scraper.Proxies = %v, want two custom proxies", cfg.Scraper.Proxies)
		}
		if cfg.Storage.Type != "postgres" {
			t.Errorf("Storage.Type = %s, want postgres", cfg.Storage.Type)
		}
		if cfg.Storage.PostgresDSN != "postgres://localhost:5432/registry" {
			t.Errorf("Storage.PostgresDSN = %s, want custom DSN", cfg.Storage.PostgresDSN)
		}
		if cfg.Auth.AdminToken != "secret" {
			t.Errorf("Auth.AdminToken = %s, want secret", cfg.Auth.AdminToken)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
		if cfg.Logging.Format != "json" {
			t.Errorf("Logging.Format = %s, want json", cfg.Logging.Format)
		}
	})

	t.Run("fails validation for invalid storage type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("REGISTRY_STORAGE_TYPE", "sqlite")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid storage type")
		}
	})

	t.Run("fails validation when mongo URI missing for mongo storage", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("REGISTRY_STORAGE_TYPE", "mongo")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing mongo URI")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		tempDir := t.TempDir()
		os.Chdir(tempDir)

		err := loadEnvFile()
		if err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		tempDir := t.TempDir()
		os.Chdir(tempDir)

		envContent := `
# Comment line
TEST_VAR_1=value1
TEST_VAR_2=value2
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		defer os.Unsetenv("TEST_VAR_1")
		defer os.Unsetenv("TEST_VAR_2")

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		tempDir := t.TempDir()
		os.Chdir(tempDir)

		os.Setenv("TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_OVERRIDE")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func validConfig() *Config {
	return &Config{
		Scraper: ScraperConfig{
			Timeout:           10 * time.Second,
			EnableDirect:      true,
			MaxBodyBytes:      1024,
			RequestsPerSecond: 1,
			Burst:             1,
		},
		Storage: StorageConfig{
			Type: "memory",
		},
		RateLimit: RateLimitConfig{
			PerIP:     10,
			CacheSize: 100,
		},
		Logging: LoggingConfig{
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(validConfig()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for invalid storage type", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Type = "invalid-type"

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for invalid storage type")
		}
	})

	t.Run("validates postgres storage with DSN", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Type = "postgres"
		cfg.Storage.PostgresDSN = "postgres://localhost/registry"

		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil for valid postgres config", err)
		}
	})

	t.Run("fails for postgres storage without DSN", func(t *testing.T) {
		cfg := validConfig()
		cfg.Storage.Type = "postgres"

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for postgres without DSN")
		}
	})

	t.Run("fails when no transport is enabled", func(t *testing.T) {
		cfg := validConfig()
		cfg.Scraper.EnableDirect = false
		cfg.Scraper.Proxies = nil

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error when no transport is enabled")
		}
	})

	t.Run("allows proxies only", func(t *testing.T) {
		cfg := validConfig()
		cfg.Scraper.EnableDirect = false
		cfg.Scraper.Proxies = []string{"https://proxy.example/?url="}

		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for non-positive timeout", func(t *testing.T) {
		cfg := validConfig()
		cfg.Scraper.Timeout = 0

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for zero timeout")
		}
	})

	t.Run("fails for unknown log format", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Format = "xml"

		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for unknown log format")
		}
	})
}

func TestValidateServer(t *testing.T) {
	cfg := validConfig()
	if err := cfg.ValidateServer(); err == nil {
		t.Error("ValidateServer() error = nil, want error for missing admin token")
	}

	cfg.Auth.AdminToken = "token"
	if err := cfg.ValidateServer(); err != nil {
		t.Errorf("ValidateServer() error = %v, want nil", err)
	}
}
