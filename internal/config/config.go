// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	AdminAPIKey string `yaml:"admin_api_key"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type PaymentConfig struct {
	CinetPay struct {
		SiteID          string `yaml:"site_id"`
		APIKey          string `yaml:"api_key"`
		WebhookSecret   string `yaml:"webhook_secret"`
		CheckoutBaseURL string `yaml:"checkout_base_url"`
	} `yaml:"cinetpay"`
	DefaultCurrency string `yaml:"default_currency"`
}

type PropagationConfig struct {
	Interval    time.Duration `yaml:"interval"`     // queue drain cadence
	MaxAttempts int           `yaml:"max_attempts"` // before a task is parked
	BatchSize   int           `yaml:"batch_size"`
}

type SweeperConfig struct {
	Interval   time.Duration `yaml:"interval"`
	StaleAfter time.Duration `yaml:"stale_after"`
}

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	Payment     PaymentConfig     `yaml:"payment"`
	Propagation PropagationConfig `yaml:"propagation"`
	Sweeper     SweeperConfig     `yaml:"sweeper"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Payment.DefaultCurrency == "" {
		cfg.Payment.DefaultCurrency = "XOF"
	}
	if cfg.Payment.CinetPay.CheckoutBaseURL == "" {
		cfg.Payment.CinetPay.CheckoutBaseURL = "https://api.cinetpay.com/v2/payment"
	}
	if cfg.Propagation.Interval <= 0 {
		cfg.Propagation.Interval = 30 * time.Second
	}
	if cfg.Propagation.MaxAttempts <= 0 {
		cfg.Propagation.MaxAttempts = 10
	}
	if cfg.Propagation.BatchSize <= 0 {
		cfg.Propagation.BatchSize = 50
	}
	if cfg.Sweeper.Interval <= 0 {
		cfg.Sweeper.Interval = time.Minute
	}
	if cfg.Sweeper.StaleAfter <= 0 {
		cfg.Sweeper.StaleAfter = 30 * time.Minute
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
