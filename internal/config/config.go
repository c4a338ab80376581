package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "gamelounge/libs/config"
)

// Config defines lounge server configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"LOUNGE_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"LOUNGE_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"LOUNGE_REDIS_ADDR"`
		Password string `yaml:"password" env:"LOUNGE_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"LOUNGE_REDIS_DB"`
		TTL      int    `yaml:"ttlSeconds" env:"LOUNGE_REDIS_TTL"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string        `yaml:"jwtSecret" env:"LOUNGE_JWT_SECRET"`
		TokenTTL  time.Duration `yaml:"tokenTTL" env:"LOUNGE_TOKEN_TTL"`
	} `yaml:"auth"`
	Billing struct {
		// Wall-clock time at which dual-priced sessions switch to the
		// evening rate, in the reference timezone.
		CutoverHour   int    `yaml:"cutoverHour" env:"LOUNGE_CUTOVER_HOUR"`
		CutoverMinute int    `yaml:"cutoverMinute" env:"LOUNGE_CUTOVER_MINUTE"`
		Timezone      string `yaml:"timezone" env:"LOUNGE_TIMEZONE"`
	} `yaml:"billing"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"LOUNGE_METRICS_ENABLED"`
	} `yaml:"metrics"`
}

// Load reads configuration via the shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTL = 86400
	cfg.Auth.TokenTTL = 12 * time.Hour
	cfg.Billing.CutoverHour = 18
	cfg.Billing.CutoverMinute = 0
	cfg.Billing.Timezone = "Asia/Kolkata"
	cfg.Metrics.Enabled = true

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	if cfg.Billing.CutoverHour < 0 || cfg.Billing.CutoverHour > 23 {
		return nil, fmt.Errorf("config: cutover hour %d out of range", cfg.Billing.CutoverHour)
	}
	if cfg.Billing.CutoverMinute < 0 || cfg.Billing.CutoverMinute > 59 {
		return nil, fmt.Errorf("config: cutover minute %d out of range", cfg.Billing.CutoverMinute)
	}
	if _, err := time.LoadLocation(cfg.Billing.Timezone); err != nil {
		return nil, fmt.Errorf("config: timezone: %w", err)
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// ActiveSessionTTL returns the Redis cache TTL as duration.
func (c *Config) ActiveSessionTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}

// Location returns the billing reference timezone. Load validates it, so
// an error here means the config was not produced by Load.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Billing.Timezone)
}
