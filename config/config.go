package config

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Log      LogConfig      `yaml:"log"`
	// Seed loads the bundled sample data into an empty store at startup.
	Seed     bool   `yaml:"seed"`
	SeedFile string `yaml:"seed_file"`
	Timezone string `yaml:"timezone"`

	// Location is Timezone resolved by Load.
	Location *time.Location `yaml:"-"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig selects the store backend. Driver "memory" keeps everything
// in process; "sqlite" and "postgres" go through gorm.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// MonitorConfig holds the alert rule thresholds.
type MonitorConfig struct {
	Enabled             bool          `yaml:"enabled"`
	IntervalSeconds     int           `yaml:"interval_seconds"`
	Interval            time.Duration `yaml:"-"` // Ignored by YAML parser
	BatteryLowPercent   int           `yaml:"battery_low_percent"`
	ExpiringWindowDays  int           `yaml:"expiring_window_days"`
	ServiceIntervalDays int           `yaml:"service_interval_days"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Keys missing from the file keep their Default() values.
	cfg := baseConfig()
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := baseConfig()
	// The zero config only fails on a bad timezone, and UTC always loads.
	_ = cfg.applyDefaults()
	return &cfg
}

// baseConfig holds the defaults that the zero value cannot express.
func baseConfig() Config {
	return Config{Seed: true, Monitor: MonitorConfig{Enabled: true}}
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	switch cfg.Database.Driver {
	case "":
		cfg.Database.Driver = DriverMemory
	case DriverMemory, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if cfg.Database.Driver == DriverPostgres && cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for the postgres driver")
	}

	if cfg.Monitor.IntervalSeconds <= 0 {
		cfg.Monitor.IntervalSeconds = 300
	}
	cfg.Monitor.Interval = time.Duration(cfg.Monitor.IntervalSeconds) * time.Second
	if cfg.Monitor.BatteryLowPercent <= 0 {
		cfg.Monitor.BatteryLowPercent = 20
	}
	if cfg.Monitor.ExpiringWindowDays <= 0 {
		cfg.Monitor.ExpiringWindowDays = 30
	}
	if cfg.Monitor.ServiceIntervalDays <= 0 {
		cfg.Monitor.ServiceIntervalDays = 180
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc
	return nil
}
