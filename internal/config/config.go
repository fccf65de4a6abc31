// Package config loads tswindow settings from YAML and TSWINDOW_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/willibrandon/tswindow/internal/chart"
	"github.com/willibrandon/tswindow/internal/logger"
	"github.com/willibrandon/tswindow/internal/snapshot"
	"github.com/willibrandon/tswindow/internal/timerange"
)

// EnvPrefix prefixes environment overrides, e.g. TSWINDOW_CHART_MAX_COUNT.
const EnvPrefix = "TSWINDOW"

// Config represents the root configuration structure
type Config struct {
	Storage  StorageConfig `mapstructure:"storage" yaml:"storage"`
	Chart    ChartConfig   `mapstructure:"chart" yaml:"chart"`
	Server   ServerConfig  `mapstructure:"server" yaml:"server"`
	UI       UIConfig      `mapstructure:"ui" yaml:"ui"`
	LogFile  string        `mapstructure:"log_file" yaml:"log_file"`
	LogLevel string        `mapstructure:"log_level" yaml:"log_level"`
	Debug    bool          `mapstructure:"debug" yaml:"debug"`
}

// StorageConfig selects and configures the history store.
type StorageConfig struct {
	Source        string         `mapstructure:"source" yaml:"source"`
	SQLitePath    string         `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	Postgres      PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
	RetentionDays int            `mapstructure:"retention_days" yaml:"retention_days"`
	Compression   string         `mapstructure:"compression" yaml:"compression"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN          string `mapstructure:"dsn" yaml:"dsn"`
	PoolMaxConns int    `mapstructure:"pool_max_conns" yaml:"pool_max_conns"`
	PoolMinConns int    `mapstructure:"pool_min_conns" yaml:"pool_min_conns"`
}

// ChartConfig holds the default window and reduction settings.
type ChartConfig struct {
	Unit     string `mapstructure:"unit" yaml:"unit"`
	Qty      int    `mapstructure:"qty" yaml:"qty"`
	MaxCount int    `mapstructure:"max_count" yaml:"max_count"`
	// MaxCountLimit caps the max_count an API client may request.
	MaxCountLimit int    `mapstructure:"max_count_limit" yaml:"max_count_limit"`
	Strategy      string `mapstructure:"strategy" yaml:"strategy"`
	Algorithm     string `mapstructure:"algorithm" yaml:"algorithm"`
	Post          bool   `mapstructure:"post" yaml:"post"`
	DateFormat    string `mapstructure:"date_format" yaml:"date_format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	// RateLimit is requests per second per client; 0 disables limiting.
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
}

// UIConfig holds terminal browser preferences.
type UIConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval" yaml:"refresh_interval"`
	ChartHeight     int           `mapstructure:"chart_height" yaml:"chart_height"`
}

// Dir returns ~/.config/tswindow.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "tswindow")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	applyDefaults(v)
	return v
}

// LoadConfig loads config.yaml from ~/.config/tswindow or the working
// directory. A missing file is not an error: defaults and environment
// overrides apply.
func LoadConfig() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath(Dir())
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		logger.Debug("no config file found, using defaults")
	} else {
		logger.Debug("loaded config", "path", v.ConfigFileUsed())
	}

	return unmarshal(v)
}

// LoadConfigFromPath loads the config file at path, which must exist.
func LoadConfigFromPath(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration, ignoring the environment.
func Default() *Config {
	v := viper.New()
	applyDefaults(v)
	cfg, err := unmarshal(v)
	if err != nil {
		// defaults are static; a failure here is a programming error
		panic(err)
	}
	return cfg
}

// ValidateConfig validates the configuration values
func ValidateConfig(cfg *Config) error {
	switch cfg.Storage.Source {
	case "sqlite":
		if cfg.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path cannot be empty")
		}
	case "postgres":
		if cfg.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required when storage.source is postgres")
		}
	default:
		return fmt.Errorf("storage.source must be one of: [sqlite postgres], got %q", cfg.Storage.Source)
	}
	if cfg.Storage.RetentionDays < 1 {
		return fmt.Errorf("storage.retention_days must be >= 1, got %d", cfg.Storage.RetentionDays)
	}
	if _, err := snapshot.ParseCompression(cfg.Storage.Compression); err != nil {
		return fmt.Errorf("storage.compression: %w", err)
	}

	pg := cfg.Storage.Postgres
	if pg.PoolMaxConns < 1 {
		return fmt.Errorf("storage.postgres.pool_max_conns must be >= 1, got %d", pg.PoolMaxConns)
	}
	if pg.PoolMinConns < 0 {
		return fmt.Errorf("storage.postgres.pool_min_conns must be >= 0, got %d", pg.PoolMinConns)
	}
	if pg.PoolMaxConns < pg.PoolMinConns {
		return fmt.Errorf("storage.postgres.pool_max_conns (%d) must be >= pool_min_conns (%d)",
			pg.PoolMaxConns, pg.PoolMinConns)
	}

	if _, err := timerange.ParseUnit(cfg.Chart.Unit); err != nil {
		return fmt.Errorf("chart.unit: %w", err)
	}
	if cfg.Chart.Qty < 0 {
		return fmt.Errorf("chart.qty must be >= 0, got %d", cfg.Chart.Qty)
	}
	if cfg.Chart.MaxCount < 1 {
		return fmt.Errorf("chart.max_count must be >= 1, got %d", cfg.Chart.MaxCount)
	}
	if cfg.Chart.MaxCountLimit < cfg.Chart.MaxCount {
		return fmt.Errorf("chart.max_count_limit (%d) must be >= max_count (%d)",
			cfg.Chart.MaxCountLimit, cfg.Chart.MaxCount)
	}
	if _, err := chart.ParseStrategy(cfg.Chart.Strategy); err != nil {
		return fmt.Errorf("chart.strategy: %w", err)
	}
	if _, err := timerange.ParseAlgorithm(cfg.Chart.Algorithm); err != nil {
		return fmt.Errorf("chart.algorithm: %w", err)
	}

	if cfg.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	if cfg.Server.ReadTimeout <= 0 || cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive, got read=%v write=%v",
			cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	}

	if cfg.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must be >= 0, got %v", cfg.Server.RateLimit)
	}

	if cfg.UI.RefreshInterval < 100*time.Millisecond || cfg.UI.RefreshInterval > 60*time.Second {
		return fmt.Errorf("ui.refresh_interval must be between 100ms and 60s, got %v", cfg.UI.RefreshInterval)
	}
	if cfg.UI.ChartHeight < 3 {
		return fmt.Errorf("ui.chart_height must be >= 3, got %d", cfg.UI.ChartHeight)
	}

	if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	return nil
}

// applyDefaults sets default configuration values
func applyDefaults(v *viper.Viper) {
	v.SetDefault("storage.source", "sqlite")
	v.SetDefault("storage.sqlite_path", filepath.Join(Dir(), "tswindow.db"))
	v.SetDefault("storage.postgres.dsn", "")
	v.SetDefault("storage.postgres.pool_max_conns", 10)
	v.SetDefault("storage.postgres.pool_min_conns", 0)
	v.SetDefault("storage.retention_days", 30)
	v.SetDefault("storage.compression", "zstd")

	v.SetDefault("chart.unit", "hour")
	v.SetDefault("chart.qty", 24)
	v.SetDefault("chart.max_count", 25)
	v.SetDefault("chart.max_count_limit", 10000)
	v.SetDefault("chart.strategy", "average")
	v.SetDefault("chart.algorithm", "upper")
	v.SetDefault("chart.post", false)
	v.SetDefault("chart.date_format", "")

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.rate_limit", 50)

	v.SetDefault("ui.refresh_interval", "2s")
	v.SetDefault("ui.chart_height", 12)

	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("debug", false)
}
