package forecast

import (
	"log/slog"
	"time"

	apperrors "github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/pkg/errors"
)

const dayKeyLayout = "2006-01-02"

// Service judges hourly wind forecasts against the configured thresholds.
type Service interface {
	Analyze(series HourlySeries) (Analysis, error)
}

type service struct {
	cfg      Config
	logger   *slog.Logger
	timezone *time.Location
	now      func() time.Time
}

// NewService wires up the forecast analyzer domain.
func NewService(cfg Config, timezone *time.Location, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		logger:   logger.With("component", "forecast.service"),
		timezone: timezone,
		now:      time.Now,
	}
}

// Analyze buckets the readings into calendar days, lays them onto the
// forecast horizon starting today and scans for runs of consecutive
// qualifying days. A forecast with no readings at all is an error; a
// forecast where nothing qualifies is a valid empty result.
func (s *service) Analyze(series HourlySeries) (Analysis, error) {
	if len(series.Readings) == 0 {
		return Analysis{}, apperrors.Wrap("no_data", "No hourly wind data available", nil)
	}

	days := s.buildWindow(s.countGoodHours(series.Readings))
	runs := detectRuns(days, s.cfg.MinHoursPerDay)
	goodRuns := filterGoodRuns(runs, s.cfg.RequiredConsecutiveDays)

	s.logger.Info("forecast analyzed",
		"readings", len(series.Readings),
		"days", len(days),
		"runs", len(runs),
		"good_runs", len(goodRuns),
	)
	return Analysis{Days: days, Runs: runs, GoodRuns: goodRuns}, nil
}

// countGoodHours counts, per calendar date, the hours whose speed falls
// inside the wind window (inclusive on both ends). Dates seen in the data
// keep an entry even when the count stays at zero.
func (s *service) countGoodHours(readings []HourlyReading) map[string]int {
	counts := make(map[string]int)
	for _, reading := range readings {
		key := reading.Time.In(s.timezone).Format(dayKeyLayout)
		knots := MPSToKnots(reading.SpeedMS)
		if knots >= s.cfg.MinKnots && knots <= s.cfg.MaxKnots {
			counts[key]++
		} else if _, ok := counts[key]; !ok {
			counts[key] = 0
		}
	}
	return counts
}

// buildWindow produces exactly ForecastDays entries, one per calendar day
// starting today in the forecast timezone. Dates absent from the counts,
// including a horizon reaching past the data, count zero good hours.
func (s *service) buildWindow(goodHours map[string]int) []DayQualification {
	start := midnight(s.now().In(s.timezone))
	days := make([]DayQualification, 0, s.cfg.ForecastDays)
	for i := 0; i < s.cfg.ForecastDays; i++ {
		date := start.AddDate(0, 0, i)
		days = append(days, DayQualification{
			Date:      date,
			GoodHours: goodHours[date.Format(dayKeyLayout)],
		})
	}
	return days
}

// detectRuns walks the window once, growing the current run while days
// qualify and cutting it on the first day that does not.
func detectRuns(days []DayQualification, minHoursPerDay int) []Run {
	var runs []Run
	var current []DayQualification
	for _, day := range days {
		if day.GoodHours >= minHoursPerDay {
			current = append(current, day)
			continue
		}
		if len(current) > 0 {
			runs = append(runs, Run{Days: current})
			current = nil
		}
	}
	if len(current) > 0 {
		runs = append(runs, Run{Days: current})
	}
	return runs
}

func filterGoodRuns(runs []Run, requiredDays int) []Run {
	good := make([]Run, 0, len(runs))
	for _, run := range runs {
		if run.Len() >= requiredDays {
			good = append(good, run)
		}
	}
	return good
}

func midnight(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}
