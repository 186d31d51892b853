package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvAPIKey names the environment variable that overrides [OMDbConfig.APIKey].
const EnvAPIKey = "MVX_OMDB_API_KEY"

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	OMDb     OMDbConfig     `toml:"omdb"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Logging  LoggingConfig  `toml:"logging"`
	Export   ExportConfig   `toml:"export"`
}

// OMDbConfig contains the movie database API settings.
type OMDbConfig struct {
	APIKey         string        `toml:"api_key"`
	BaseURL        string        `toml:"base_url"`
	Plot           string        `toml:"plot"`
	TimeoutSeconds int           `toml:"timeout_seconds"`
	UserAgent      string        `toml:"user_agent"`
	Breaker        BreakerConfig `toml:"breaker"`
}

// BreakerConfig controls the circuit breaker in front of the movie database.
//
// A FailureThreshold of zero disables the breaker.
type BreakerConfig struct {
	FailureThreshold uint32 `toml:"failure_threshold"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
}

// Enabled reports whether requests go through a breaker.
func (c BreakerConfig) Enabled() bool {
	return c.FailureThreshold > 0
}

// Timeout returns how long the breaker stays open before letting a probe through.
func (c BreakerConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the request timeout as a [time.Duration]. Zero means no timeout.
func (c OMDbConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host               string   `toml:"host"`
	Port               int      `toml:"port"`
	RateLimitPerMinute int      `toml:"rate_limit_per_minute"`
	AllowedOrigins     []string `toml:"allowed_origins"`
}

// Addr returns host:port for [http.Server].
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	Level      string `toml:"level"`
	TUILogFile string `toml:"tui_log_file"`
}

// ExportConfig contains defaults for batch favorites operations.
type ExportConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	config.applyEnv()
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

func (c *Config) applyEnv() {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		c.OMDb.APIKey = key
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
