package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr       string `yaml:"addr"`
		AdminToken string `yaml:"admin_token"`
	} `yaml:"server"`
	Store struct {
		BadgerPath string `yaml:"badger_path"`
		SeedFile   string `yaml:"seed_file"`
	} `yaml:"store"`
	Cache struct {
		TTLRaw string        `yaml:"ttl"`
		TTL    time.Duration `yaml:"-"`
	} `yaml:"cache"`
	Summary struct {
		WindowBars  int `yaml:"window_bars"`
		SeriesLimit int `yaml:"series_limit"`
	} `yaml:"summary"`
	Watchlist struct {
		StateFile      string   `yaml:"state_file"`
		DefaultSymbols []string `yaml:"default_symbols"`
	} `yaml:"watchlist"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		UsageCron   string `yaml:"usage_cron"`
	} `yaml:"schedule"`
	Usage struct {
		SampleSize int `yaml:"sample_size"`
	} `yaml:"usage"`
	LogLevel string `yaml:"log_level"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("BADGER_PATH"); v != "" {
		cfg.Store.BadgerPath = v
	}
	if v := os.Getenv("SEED_FILE"); v != "" {
		cfg.Store.SeedFile = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		cfg.Cache.TTLRaw = v
	}
	if cfg.Cache.TTLRaw != "" {
		d, err := time.ParseDuration(cfg.Cache.TTLRaw)
		if err != nil {
			return nil, fmt.Errorf("parse cache.ttl: %w", err)
		}
		cfg.Cache.TTL = d
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("USAGE_SAMPLE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Usage.SampleSize = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Store.BadgerPath == "" {
		cfg.Store.BadgerPath = "data/docstore"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}
	if cfg.Summary.WindowBars == 0 {
		cfg.Summary.WindowBars = 252
	}
	if cfg.Summary.SeriesLimit == 0 {
		cfg.Summary.SeriesLimit = cfg.Summary.WindowBars
	}
	if cfg.Watchlist.StateFile == "" {
		cfg.Watchlist.StateFile = "data/watchlist.json"
	}
	if len(cfg.Watchlist.DefaultSymbols) == 0 {
		cfg.Watchlist.DefaultSymbols = []string{"AAPL", "MSFT", "GOOG", "AMZN", "NVDA"}
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockdesk.db"
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 */10 * * * *"
	}
	if cfg.Schedule.UsageCron == "" {
		cfg.Schedule.UsageCron = "0 0 6 * * *"
	}
	if cfg.Usage.SampleSize == 0 {
		cfg.Usage.SampleSize = 500
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and coherent.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Store.BadgerPath == "" {
		return fmt.Errorf("store.badger_path is required")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Summary.WindowBars <= 0 {
		return fmt.Errorf("summary.window_bars must be positive")
	}
	if c.Summary.SeriesLimit < c.Summary.WindowBars {
		return fmt.Errorf("summary.series_limit must cover the summary window")
	}
	if c.Usage.SampleSize <= 0 {
		return fmt.Errorf("usage.sample_size must be positive")
	}
	return nil
}
