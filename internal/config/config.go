// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Lookup   LookupConfig   `mapstructure:"lookup"`
	Headless HeadlessConfig `mapstructure:"headless"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Probe    ProbeConfig    `mapstructure:"probe"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// LookupConfig governs scrape admission and politeness.
type LookupConfig struct {
	ScrapeQPS   float64 `mapstructure:"scrape_qps"`
	ScrapeBurst int     `mapstructure:"scrape_burst"`
}

// HeadlessConfig configures the browser automation subsystem.
type HeadlessConfig struct {
	UserAgent              string `mapstructure:"user_agent"`
	MaxParallel            int    `mapstructure:"max_parallel"`
	SessionTimeoutSec      int    `mapstructure:"session_timeout_seconds"`
	CaptchaTimeoutSec      int    `mapstructure:"captcha_timeout_seconds"`
	ResultsTimeoutSec      int    `mapstructure:"results_timeout_seconds"`
	CourtResultsTimeoutSec int    `mapstructure:"court_results_timeout_seconds"`
}

// CacheConfig bounds the result cache.
type CacheConfig struct {
	TTLHours         int `mapstructure:"ttl_hours"`
	MaxEntries       int `mapstructure:"max_entries"`
	SweepIntervalMin int `mapstructure:"sweep_interval_minutes"`
}

// ProbeConfig controls the site reachability checker.
type ProbeConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	TimeoutSeconds int  `mapstructure:"timeout_seconds"`
	IntervalMin    int  `mapstructure:"interval_minutes"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COURTJESTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 150)
	v.SetDefault("lookup.scrape_qps", 0.5)
	v.SetDefault("lookup.scrape_burst", 1)
	v.SetDefault("headless.user_agent", "CourtJester/1.0 (+https://github.com/DigitalHerencia/court-jester)")
	v.SetDefault("headless.max_parallel", 1)
	v.SetDefault("headless.session_timeout_seconds", 120)
	v.SetDefault("headless.captcha_timeout_seconds", 30)
	v.SetDefault("headless.results_timeout_seconds", 15)
	v.SetDefault("headless.court_results_timeout_seconds", 10)
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("cache.max_entries", 256)
	v.SetDefault("cache.sweep_interval_minutes", 60)
	v.SetDefault("probe.enabled", true)
	v.SetDefault("probe.timeout_seconds", 10)
	v.SetDefault("probe.interval_minutes", 15)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.TimeoutSeconds <= 0 {
		return fmt.Errorf("server.timeout_seconds must be > 0")
	}
	if c.Headless.MaxParallel <= 0 {
		return fmt.Errorf("headless.max_parallel must be > 0")
	}
	if c.Headless.CaptchaTimeoutSec <= 0 {
		return fmt.Errorf("headless.captcha_timeout_seconds must be > 0")
	}
	if c.Cache.TTLHours <= 0 {
		return fmt.Errorf("cache.ttl_hours must be > 0")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	return nil
}

// CacheTTL converts the configured freshness window into a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// SessionTimeout converts the configured session seconds into a duration.
func (c Config) SessionTimeout() time.Duration {
	return time.Duration(c.Headless.SessionTimeoutSec) * time.Second
}
