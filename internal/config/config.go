// Package config provides configuration management for pricewatch.
// Values come from an optional config.yaml, environment variables (optionally
// via a .env file), and code defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults applied when neither config file nor environment provide a value.
const (
	defaultServerAddress   = ":8080"
	defaultServerTimeout   = 15 * time.Second
	defaultDatabasePort    = "5432"
	defaultSMTPPort        = 587
	defaultFetchTimeout    = 30 * time.Second
	defaultPriceSelector   = "p.price_color"
	defaultCheckInterval   = 30 * time.Minute
	defaultAlertCooldown   = 6 * time.Hour
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute

	// defaultUserAgent identifies fetches as an ordinary browser; some product
	// pages refuse requests without one.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Config is the root application configuration.
type Config struct {
	Debug     bool            `mapstructure:"debug"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
	StaticDir    string        `mapstructure:"static_dir"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// SMTPConfig holds the mail relay settings used for price drop alerts.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// ScraperConfig holds page fetching and price extraction settings.
type ScraperConfig struct {
	UserAgent     string        `mapstructure:"user_agent"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	PriceSelector string        `mapstructure:"price_selector"`
}

// SchedulerConfig holds the price check cadence.
type SchedulerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// AlertsConfig holds alert suppression settings. A cooldown of zero re-sends
// an alert on every cycle the price sits at or below target.
type AlertsConfig struct {
	Cooldown time.Duration `mapstructure:"cooldown"`
}

// Load reads configuration from config.yaml (optional), a .env file
// (optional), and environment variables, then validates the result.
func Load() (*Config, error) {
	// .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	// Config file is optional: env vars and defaults cover everything.
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that everything required to reach storage is present.
// SMTP settings are validated lazily by the notifier so that read-only
// commands work without mail credentials.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New("server.address is required")
	}
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.Scraper.PriceSelector == "" {
		return errors.New("scraper.price_selector is required")
	}
	if c.Scheduler.Interval <= 0 {
		return errors.New("scheduler.interval must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)

	v.SetDefault("server", map[string]any{
		"address":       defaultServerAddress,
		"read_timeout":  defaultServerTimeout.String(),
		"write_timeout": defaultServerTimeout.String(),
		"cors_origins":  []string{"http://localhost:3000"},
		"static_dir":    "web/static",
	})

	v.SetDefault("database", map[string]any{
		"host":              "localhost",
		"port":              defaultDatabasePort,
		"user":              "postgres",
		"dbname":            "pricewatch",
		"sslmode":           "disable",
		"max_open_conns":    defaultMaxOpenConns,
		"max_idle_conns":    defaultMaxIdleConns,
		"conn_max_lifetime": defaultConnMaxLifetime.String(),
	})

	v.SetDefault("smtp", map[string]any{
		"host": "smtp.gmail.com",
		"port": defaultSMTPPort,
	})

	v.SetDefault("scraper", map[string]any{
		"user_agent":     defaultUserAgent,
		"fetch_timeout":  defaultFetchTimeout.String(),
		"price_selector": defaultPriceSelector,
	})

	v.SetDefault("scheduler", map[string]any{
		"interval": defaultCheckInterval.String(),
	})

	v.SetDefault("alerts", map[string]any{
		"cooldown": defaultAlertCooldown.String(),
	})
}

// bindEnvVars maps flat environment variable names onto config keys.
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string][]string{
		"debug":                  {"APP_DEBUG"},
		"server.address":         {"SERVER_ADDRESS"},
		"database.host":          {"DB_HOST"},
		"database.port":          {"DB_PORT"},
		"database.user":          {"DB_USER"},
		"database.password":      {"DB_PASSWORD"},
		"database.dbname":        {"DB_NAME"},
		"database.sslmode":       {"DB_SSLMODE"},
		"smtp.host":              {"SMTP_HOST"},
		"smtp.port":              {"SMTP_PORT"},
		"smtp.username":          {"SMTP_USERNAME", "EMAIL_USER"},
		"smtp.password":          {"SMTP_PASSWORD", "EMAIL_PASSWORD"},
		"smtp.from":              {"SMTP_FROM"},
		"scraper.user_agent":     {"SCRAPER_USER_AGENT"},
		"scraper.price_selector": {"SCRAPER_PRICE_SELECTOR"},
		"scheduler.interval":     {"SCHEDULER_INTERVAL"},
		"alerts.cooldown":        {"ALERTS_COOLDOWN"},
	}

	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}
