// Package config loads runtime settings from the environment, an optional
// .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kudiwise/kudicore/currency"
	"github.com/spf13/viper"
)

type Config struct {
	Port                string        `mapstructure:"port"`
	DatabaseURL         string        `mapstructure:"database_url"`
	LogLevel            string        `mapstructure:"log_level"`
	Stage               string        `mapstructure:"stage"`
	CBNRateURL          string        `mapstructure:"cbn_rate_url"`
	RateFetchTimeout    time.Duration `mapstructure:"rate_fetch_timeout"`
	RateRefreshInterval time.Duration `mapstructure:"rate_refresh_interval"`
	RateLimitRPS        float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst      int           `mapstructure:"rate_limit_burst"`
}

var defaults = map[string]any{
	"port":                  "8080",
	"database_url":          "",
	"log_level":             "info",
	"stage":                 "dev",
	"cbn_rate_url":          currency.DefaultCBNURL,
	"rate_fetch_timeout":    "30s",
	"rate_refresh_interval": "24h",
	"rate_limit_rps":        20.0,
	"rate_limit_burst":      40,
}

// Load reads .env (when present) into the process environment, then layers
// environment variables over configFile (when given) over the defaults.
func Load(configFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Port == "":
		return errors.New("port is required")
	case c.RateFetchTimeout <= 0:
		return errors.New("rate_fetch_timeout must be positive")
	case c.RateRefreshInterval <= 0:
		return errors.New("rate_refresh_interval must be positive")
	case c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0:
		return errors.New("rate limit settings must be positive")
	}

	return nil
}
