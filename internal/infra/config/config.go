// Package config loads runtime configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates everything a single alert run needs.
type Config struct {
	Location LocationConfig `yaml:"location"`
	Wind     WindConfig     `yaml:"wind"`
	Alert    AlertConfig    `yaml:"alert"`
	Forecast ForecastConfig `yaml:"forecast"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Email    EmailConfig    `yaml:"email"`
}

// LocationConfig pins the spot the forecast is checked for.
type LocationConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// WindConfig is the rideable wind window in knots.
type WindConfig struct {
	MinKnots float64 `yaml:"minKnots"`
	MaxKnots float64 `yaml:"maxKnots"`
}

// AlertConfig sets how much rideable wind makes a trip worth mailing about.
type AlertConfig struct {
	MinHoursPerDay          int `yaml:"minHoursPerDay"`
	RequiredConsecutiveDays int `yaml:"requiredConsecutiveDays"`
}

// ForecastConfig drives the upstream forecast request.
type ForecastConfig struct {
	Days         int           `yaml:"days"`
	Timezone     string        `yaml:"timezone"`
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
}

// SMTPConfig holds the outbound mail relay settings. Username and
// Password are optional; the mailer authenticates only when both are set.
type SMTPConfig struct {
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

// EmailConfig addresses the alert message.
type EmailConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Load builds the configuration by layering an optional YAML file and
// environment variables over the defaults. The file comes from CONFIG_PATH
// when set, otherwise configs/config.yaml if present. A malformed value in
// either layer is an error rather than a silent fallback.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Defaults point at the Hel Peninsula spot.
func defaultConfig() *Config {
	return &Config{
		Location: LocationConfig{
			Latitude:  54.6806,
			Longitude: 18.5591,
		},
		Wind: WindConfig{
			MinKnots: 12,
			MaxKnots: 30,
		},
		Alert: AlertConfig{
			MinHoursPerDay:          6,
			RequiredConsecutiveDays: 2,
		},
		Forecast: ForecastConfig{
			Days:         7,
			Timezone:     "Europe/Warsaw",
			FetchTimeout: 15 * time.Second,
		},
		SMTP: SMTPConfig{
			Port:    587,
			Timeout: 30 * time.Second,
		},
	}
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if err := overrideFloat("LAT", &cfg.Location.Latitude); err != nil {
		return err
	}
	if err := overrideFloat("LON", &cfg.Location.Longitude); err != nil {
		return err
	}
	if err := overrideFloat("MIN_WIND_KNOTS", &cfg.Wind.MinKnots); err != nil {
		return err
	}
	if err := overrideFloat("MAX_WIND_KNOTS", &cfg.Wind.MaxKnots); err != nil {
		return err
	}
	if err := overrideInt("MIN_HOURS_PER_DAY", &cfg.Alert.MinHoursPerDay); err != nil {
		return err
	}
	if err := overrideInt("REQUIRED_CONSECUTIVE_DAYS", &cfg.Alert.RequiredConsecutiveDays); err != nil {
		return err
	}
	if err := overrideInt("FORECAST_DAYS", &cfg.Forecast.Days); err != nil {
		return err
	}
	if err := overrideInt("SMTP_PORT", &cfg.SMTP.Port); err != nil {
		return err
	}
	if err := overrideDuration("FETCH_TIMEOUT", &cfg.Forecast.FetchTimeout); err != nil {
		return err
	}
	if err := overrideDuration("SMTP_TIMEOUT", &cfg.SMTP.Timeout); err != nil {
		return err
	}

	overrideString("TIMEZONE", &cfg.Forecast.Timezone)
	overrideString("SMTP_HOST", &cfg.SMTP.Host)
	overrideString("SMTP_USER", &cfg.SMTP.Username)
	overrideString("SMTP_PASSWORD", &cfg.SMTP.Password)
	overrideString("EMAIL_FROM", &cfg.Email.From)
	overrideString("EMAIL_TO", &cfg.Email.To)
	return nil
}

func overrideFloat(name string, dst *float64) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	*dst = parsed
	return nil
}

func overrideInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	*dst = parsed
	return nil
}

func overrideDuration(name string, dst *time.Duration) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	*dst = parsed
	return nil
}

func overrideString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// Validate rejects values the run could not work with. SMTP host and the
// email addresses are deliberately not checked here: a dry run or a run that
// finds nothing to report never touches the mailer, so their absence only
// matters once an alert actually has to go out.
func (c *Config) Validate() error {
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		return errors.New("location.latitude must be between -90 and 90")
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		return errors.New("location.longitude must be between -180 and 180")
	}
	if c.Wind.MinKnots < 0 {
		return errors.New("wind.minKnots cannot be negative")
	}
	if c.Wind.MaxKnots < c.Wind.MinKnots {
		return errors.New("wind.maxKnots cannot be below wind.minKnots")
	}
	if c.Alert.MinHoursPerDay < 0 || c.Alert.MinHoursPerDay > 24 {
		return errors.New("alert.minHoursPerDay must be between 0 and 24")
	}
	if c.Alert.RequiredConsecutiveDays < 1 {
		return errors.New("alert.requiredConsecutiveDays must be at least 1")
	}
	if c.Forecast.Days < 1 {
		return errors.New("forecast.days must be at least 1")
	}
	if c.Forecast.FetchTimeout <= 0 {
		return errors.New("forecast.fetchTimeout must be positive")
	}
	if _, err := time.LoadLocation(c.Forecast.Timezone); err != nil {
		return fmt.Errorf("forecast.timezone: %w", err)
	}
	if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
		return errors.New("smtp.port must be a valid port number")
	}
	if c.SMTP.Timeout <= 0 {
		return errors.New("smtp.timeout must be positive")
	}
	return nil
}
