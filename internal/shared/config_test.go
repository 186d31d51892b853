package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "")
		config := DefaultConfig()

		if config.Database.Path != "./mvx.db" {
			t.Errorf("expected database path ./mvx.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.OMDb.BaseURL != "http://www.omdbapi.com/" {
			t.Errorf("expected omdb base URL http://www.omdbapi.com/, got %s", config.OMDb.BaseURL)
		}

		if config.OMDb.APIKey != "" {
			t.Errorf("expected empty api key, got %s", config.OMDb.APIKey)
		}

		if config.OMDb.Timeout() != 10*time.Second {
			t.Errorf("expected 10s timeout, got %v", config.OMDb.Timeout())
		}

		if config.Server.Addr() != "127.0.0.1:3000" {
			t.Errorf("expected addr 127.0.0.1:3000, got %s", config.Server.Addr())
		}

		if !config.OMDb.Breaker.Enabled() || config.OMDb.Breaker.FailureThreshold != 5 {
			t.Errorf("expected breaker enabled with threshold 5, got %+v", config.OMDb.Breaker)
		}

		if config.Server.RateLimitPerMinute != 120 || len(config.Server.AllowedOrigins) != 2 {
			t.Errorf("unexpected server defaults: %+v", config.Server)
		}
	})

	t.Run("BreakerConfig", func(t *testing.T) {
		off := BreakerConfig{}
		if off.Enabled() {
			t.Error("zero threshold should disable the breaker")
		}
		if off.Timeout() != 30*time.Second {
			t.Errorf("expected 30s default timeout, got %v", off.Timeout())
		}
		if got := (BreakerConfig{TimeoutSeconds: 5}).Timeout(); got != 5*time.Second {
			t.Errorf("expected 5s, got %v", got)
		}
	})

	t.Run("environment overrides api key", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "env-key")
		if config := DefaultConfig(); config.OMDb.APIKey != "env-key" {
			t.Errorf("expected api key from environment, got %q", config.OMDb.APIKey)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "")
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[omdb]
api_key = "test_api_key"
plot = "full"
timeout_seconds = 0
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 8080 {
			t.Errorf("expected server port 8080, got %d", config.Server.Port)
		}

		if config.OMDb.APIKey != "test_api_key" {
			t.Errorf("expected api key test_api_key, got %s", config.OMDb.APIKey)
		}

		if config.OMDb.Plot != "full" {
			t.Errorf("expected plot full, got %s", config.OMDb.Plot)
		}

		if config.OMDb.Timeout() != 0 {
			t.Errorf("expected no timeout, got %v", config.OMDb.Timeout())
		}

		if config.OMDb.BaseURL != "http://www.omdbapi.com/" {
			t.Errorf("expected default base URL to survive partial config, got %s", config.OMDb.BaseURL)
		}

		if config.Export.Workers != 4 {
			t.Errorf("expected default export workers 4, got %d", config.Export.Workers)
		}
	})

	t.Run("LoadConfig invalid TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[omdb\napi_key ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
