package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/internal/bootstrap"
	"github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/internal/domain/forecast"
	"github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/internal/infra/config"
	"github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/internal/infra/mailer"
	"github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/internal/infra/openmeteo"
)

// One request per second with a small burst is plenty for a one-shot run
// and keeps repeated invocations inside Open-Meteo's free-tier fair use.
const (
	forecastRPS   = 1
	forecastBurst = 2
)

func provideForecastConfig(cfg *config.Config) forecast.Config {
	return forecast.Config{
		MinKnots:                cfg.Wind.MinKnots,
		MaxKnots:                cfg.Wind.MaxKnots,
		MinHoursPerDay:          cfg.Alert.MinHoursPerDay,
		RequiredConsecutiveDays: cfg.Alert.RequiredConsecutiveDays,
		ForecastDays:            cfg.Forecast.Days,
	}
}

func provideMailerConfig(cfg *config.Config) mailer.Config {
	return mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.Email.From,
		To:       cfg.Email.To,
		Timeout:  cfg.SMTP.Timeout,
	}
}

func provideForecastSource(cfg *config.Config, location *time.Location) bootstrap.ForecastSource {
	client := openmeteo.NewClient("", location, cfg.Forecast.FetchTimeout)
	return openmeteo.NewRateLimitedSource(client, forecastRPS, forecastBurst)
}

// buildApp wires the pipeline by hand.
func buildApp(cfg *config.Config, logger *slog.Logger, out io.Writer, dryRun bool) (*bootstrap.App, error) {
	location, err := time.LoadLocation(cfg.Forecast.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load forecast timezone: %w", err)
	}

	analyzerCfg := provideForecastConfig(cfg)
	source := provideForecastSource(cfg, location)
	analyzer := forecast.NewService(analyzerCfg, location, logger)
	notifier := mailer.NewSMTPMailer(provideMailerConfig(cfg), logger)

	return bootstrap.NewApp(cfg, analyzerCfg, source, analyzer, notifier, logger, out, dryRun), nil
}
