package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DataSource struct {
		UseMock        bool `yaml:"use_mock"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"data_source"`
	Defaults struct {
		ShortWindow int `yaml:"short_window"`
		LongWindow  int `yaml:"long_window"`
		TrendWindow int `yaml:"trend_window"`
		RangeDays   int `yaml:"range_days"`
	} `yaml:"defaults"`
	Cache struct {
		TTLMinutes int    `yaml:"ttl_minutes"`
		MaxEntries int    `yaml:"max_entries"`
		SweepCron  string `yaml:"sweep_cron"`
	} `yaml:"cache"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is fine; defaults fill the gaps.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("USE_MOCK_DATA"); v != "" {
		cfg.DataSource.UseMock = v == "true" || v == "1"
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CACHE_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.TTLMinutes = n
		}
	}
	if v := os.Getenv("CACHE_MAX_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cache.MaxEntries = n
		}
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.DataSource.TimeoutSeconds == 0 {
		cfg.DataSource.TimeoutSeconds = 30
	}
	if cfg.Defaults.ShortWindow == 0 {
		cfg.Defaults.ShortWindow = 20
	}
	if cfg.Defaults.LongWindow == 0 {
		cfg.Defaults.LongWindow = 50
	}
	if cfg.Defaults.TrendWindow == 0 {
		cfg.Defaults.TrendWindow = 7
	}
	if cfg.Defaults.RangeDays == 0 {
		cfg.Defaults.RangeDays = 365 * 2
	}
	if cfg.Cache.TTLMinutes == 0 {
		cfg.Cache.TTLMinutes = 60
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = 128
	}
	if cfg.Cache.SweepCron == "" {
		cfg.Cache.SweepCron = "0 */10 * * * *"
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Defaults.ShortWindow <= 0 || c.Defaults.LongWindow <= 0 || c.Defaults.TrendWindow <= 0 {
		return fmt.Errorf("default window lengths must be positive")
	}
	if c.Defaults.ShortWindow >= c.Defaults.LongWindow {
		return fmt.Errorf("defaults.short_window must be smaller than defaults.long_window")
	}
	if c.Cache.TTLMinutes <= 0 || c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache ttl and max_entries must be positive")
	}
	return nil
}
