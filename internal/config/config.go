package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	TargetsFile   string `mapstructure:"targets_file"`
	NotifiersFile string `mapstructure:"notifiers_file"`

	DataDir      string `mapstructure:"data_dir"`
	LedgerFormat string `mapstructure:"ledger_format"`

	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPRetryCount     int           `mapstructure:"http_retry_count"`
	HTTPUserAgent      string        `mapstructure:"http_user_agent"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	Timezone string         `mapstructure:"timezone"`
	Location *time.Location `mapstructure:"-"`

	// Schedule is consumed by the watcher binary only; the run-once
	// entry point performs no scheduling of its own.
	Schedule string `mapstructure:"schedule"`
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/110.0.0.0 Safari/537.36"

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "headline-ledger")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("targets_file", "./configs/targets.yaml")
	v.SetDefault("notifiers_file", "")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("ledger_format", "ndjson")
	v.SetDefault("http_timeout_seconds", 10) // seconds
	v.SetDefault("http_retry_count", 0)      // single attempt
	v.SetDefault("http_user_agent", defaultUserAgent)
	v.SetDefault("timezone", "UTC")
	v.SetDefault("schedule", "0 8,20 * * *") // twice daily

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.HTTPRetryCount < 0 {
		return nil, fmt.Errorf("invalid http_retry_count (must be zero or positive)")
	}

	switch strings.TrimSpace(strings.ToLower(cfg.LedgerFormat)) {
	case "ndjson", "tsv", "none":
	default:
		return nil, fmt.Errorf("unsupported ledger_format %q (expected ndjson, tsv, or none)", cfg.LedgerFormat)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	if strings.TrimSpace(cfg.Schedule) == "" {
		return nil, fmt.Errorf("schedule must not be empty")
	}

	return &cfg, nil
}
