package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Catalog  CatalogConfig  `toml:"catalog"`
	Database DatabaseConfig `toml:"database"`
	Artwork  ArtworkConfig  `toml:"artwork"`
	UI       UIConfig       `toml:"ui"`
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
}

// CatalogConfig points at the playlist catalog file.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ArtworkConfig controls artwork lookups and the remote fetcher.
type ArtworkConfig struct {
	Fetch          bool    `toml:"fetch"`
	RatePerSecond  float64 `toml:"rate_per_second"`
	Burst          int     `toml:"burst"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Placeholder    string  `toml:"placeholder"`
}

// UIConfig holds transition timings in milliseconds.
type UIConfig struct {
	ExitMS  int `toml:"exit_ms"`
	EnterMS int `toml:"enter_ms"`
}

// ServerConfig configures the JSON catalog API.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Timeout returns the artwork fetch timeout as a [time.Duration].
func (a ArtworkConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// ExitDuration is the length of the outgoing half of a transition.
func (u UIConfig) ExitDuration() time.Duration {
	return time.Duration(u.ExitMS) * time.Millisecond
}

// EnterDuration is the length of the incoming half of a transition.
func (u UIConfig) EnterDuration() time.Duration {
	return time.Duration(u.EnterMS) * time.Millisecond
}

// ParsedLevel parses the configured log level, falling back to [log.InfoLevel].
func (l LogConfig) ParsedLevel() log.Level {
	if l.Level == "" {
		return log.InfoLevel
	}
	lvl, err := log.ParseLevel(l.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Validate checks the numeric settings that would otherwise misbehave at runtime.
func (c *Config) Validate() error {
	if c.UI.ExitMS < 0 || c.UI.EnterMS < 0 {
		return fmt.Errorf("%w: transition durations must not be negative", ErrInvalidConfig)
	}
	if c.Artwork.Fetch && c.Artwork.RatePerSecond <= 0 {
		return fmt.Errorf("%w: artwork.rate_per_second must be positive when fetch is enabled", ErrInvalidConfig)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalidConfig)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
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
