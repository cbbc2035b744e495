package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingToken  = errors.New("telegram bot token is not set")
	ErrMissingSecret = errors.New("admin api is enabled but jwt_secret is empty")
)

// Config holds the application's configuration.
type Config struct {
	Telegram struct {
		Token                string `yaml:"token"`
		UpdateTimeoutSeconds int    `yaml:"update_timeout_seconds"`
	} `yaml:"telegram"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Activity struct {
		FlushIntervalSeconds int `yaml:"flush_interval_seconds"`
	} `yaml:"activity"`
	App struct {
		Timezone     string `yaml:"timezone"`
		ReminderHour int    `yaml:"reminder_hour"`
	} `yaml:"app"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	AdminAPI struct {
		Enabled        bool     `yaml:"enabled"`
		Port           string   `yaml:"port"`
		JWTSecret      string   `yaml:"jwt_secret"`
		TokenTTLHours  int      `yaml:"token_ttl_hours"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"admin_api"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Telegram.UpdateTimeoutSeconds = 60
	cfg.Database.Path = "data/bot.sqlite3"
	cfg.Activity.FlushIntervalSeconds = 60
	cfg.App.Timezone = "Europe/Moscow"
	cfg.App.ReminderHour = 20
	cfg.Log.Level = "info"
	cfg.AdminAPI.Port = ":8085"
	cfg.AdminAPI.TokenTTLHours = 24
	cfg.AdminAPI.AllowedOrigins = []string{"*"}
	return cfg
}

// LoadConfig reads configuration from the specified YAML file on top of the
// defaults, then applies environment overrides. A missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		file, err := os.Open(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to open config file: %w", err)
		default:
			defer file.Close()
			decoder := yaml.NewDecoder(file)
			if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("failed to decode config file: %w", err)
			}
		}
	}

	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("BOT_TOKEN"); ok && v != "" {
		c.Telegram.Token = v
	}
	if v, ok := lookup("DB_PATH"); ok && v != "" {
		c.Database.Path = v
	}
	if v, ok := lookup("TZ"); ok && v != "" {
		c.App.Timezone = v
	}
	if v, ok := lookup("VISIT_ASK_HOUR"); ok && v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("VISIT_ASK_HOUR: %w", err)
		}
		c.App.ReminderHour = hour
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("ADMIN_API_SECRET"); ok && v != "" {
		c.AdminAPI.JWTSecret = v
	}
	return nil
}

// Validate checks everything except the bot token, which only `run` needs.
func (c *Config) Validate() error {
	if c.App.ReminderHour < 0 || c.App.ReminderHour > 23 {
		return fmt.Errorf("app.reminder_hour must be within 0..23, got %d", c.App.ReminderHour)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("app.timezone %q: %w", c.App.Timezone, err)
	}
	if c.Database.Path == "" {
		return errors.New("database.path is empty")
	}
	if c.Activity.FlushIntervalSeconds <= 0 {
		return fmt.Errorf("activity.flush_interval_seconds must be positive, got %d", c.Activity.FlushIntervalSeconds)
	}
	if c.AdminAPI.TokenTTLHours <= 0 {
		return fmt.Errorf("admin_api.token_ttl_hours must be positive, got %d", c.AdminAPI.TokenTTLHours)
	}
	if c.AdminAPI.Enabled && c.AdminAPI.JWTSecret == "" {
		return ErrMissingSecret
	}
	if c.AdminAPI.Enabled && len(c.AdminAPI.AllowedOrigins) == 0 {
		return errors.New("admin_api.allowed_origins is empty")
	}
	return nil
}

// RequireToken reports ErrMissingToken when the bot cannot start.
func (c *Config) RequireToken() error {
	if c.Telegram.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// Location returns the configured timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) FlushInterval() time.Duration {
	return time.Duration(c.Activity.FlushIntervalSeconds) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.AdminAPI.TokenTTLHours) * time.Hour
}
