// Package bootstrap runs the alert pipeline: fetch the forecast, judge it
// and mail the report when a good run shows up.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/internal/domain/forecast"
	"github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/internal/domain/report"
	"github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/internal/infra/config"
	apperrors "github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/pkg/errors"
)

// ForecastSource produces the hourly wind forecast to judge.
type ForecastSource interface {
	Fetch(ctx context.Context, lat, lon float64, days int) (forecast.HourlySeries, error)
}

// Analyzer turns an hourly series into qualifying days and runs.
type Analyzer interface {
	Analyze(series forecast.HourlySeries) (forecast.Analysis, error)
}

// Notifier delivers the rendered alert.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}

// App encapsulates one alert run.
type App struct {
	cfg         *config.Config
	analyzerCfg forecast.Config
	source      ForecastSource
	analyzer    Analyzer
	notifier    Notifier
	logger      *slog.Logger
	out         io.Writer
	dryRun      bool
}

// NewApp builds the runnable app. User-facing output (the summary or the
// dry-run report) goes to out; diagnostics go to the logger.
func NewApp(cfg *config.Config, analyzerCfg forecast.Config, source ForecastSource, analyzer Analyzer, notifier Notifier, logger *slog.Logger, out io.Writer, dryRun bool) *App {
	return &App{
		cfg:         cfg,
		analyzerCfg: analyzerCfg,
		source:      source,
		analyzer:    analyzer,
		notifier:    notifier,
		logger:      logger.With("component", "bootstrap"),
		out:         out,
		dryRun:      dryRun,
	}
}

// Run executes the pipeline once and blocks until it finishes. Finding no
// good runs is a normal outcome, not an error.
func (a *App) Run(ctx context.Context) error {
	series, err := a.source.Fetch(ctx, a.cfg.Location.Latitude, a.cfg.Location.Longitude, a.cfg.Forecast.Days)
	if err != nil {
		return apperrors.Wrap("fetch_failed", "Failed to fetch forecast", err)
	}
	a.logger.Info("forecast fetched", "source", series.Source, "readings", len(series.Readings))

	analysis, err := a.analyzer.Analyze(series)
	if err != nil {
		return err
	}

	if len(analysis.GoodRuns) == 0 {
		a.logger.Info("no qualifying runs in forecast", "days", len(analysis.Days))
		fmt.Fprintln(a.out, "No suitable runs found. Summary:")
		for _, day := range analysis.Days {
			fmt.Fprintf(a.out, "%s: %dh\n", day.Date.Format("2006-01-02"), day.GoodHours)
		}
		return nil
	}

	a.logger.Info("good runs detected", "count", len(analysis.GoodRuns))
	body := report.Render(analysis.GoodRuns, analysis.Days, a.analyzerCfg)

	if a.dryRun {
		fmt.Fprintln(a.out, report.Subject)
		fmt.Fprintln(a.out, body)
		return nil
	}

	if err := a.notifier.Send(ctx, report.Subject, body); err != nil {
		return apperrors.Wrap("send_failed", "Failed to send email", err)
	}
	fmt.Fprintln(a.out, "Alert email sent to", a.cfg.Email.To)
	return nil
}
