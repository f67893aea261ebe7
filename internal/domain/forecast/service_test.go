package forecast

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/pkg/errors"
)

func TestAnalyzeWindowSpansHorizon(t *testing.T) {
	for _, horizon := range []int{1, 3, 7, 10} {
		cfg := fixtureCfg(horizon)
		svc := newAnalyzer(cfg, "2026-04-06T09:00:00Z")

		analysis, err := svc.Analyze(HourlySeries{
			Readings: knotsAt(mustParse("2026-04-06T09:00:00Z"), 3, 15),
		})
		require.NoError(t, err)
		require.Len(t, analysis.Days, horizon)

		start := mustParse("2026-04-06T00:00:00Z")
		for i, day := range analysis.Days {
			require.Equal(t, start.AddDate(0, 0, i), day.Date)
		}
	}
}

func TestAnalyzeWindBoundariesInclusive(t *testing.T) {
	const minMS, maxMS = 6.0, 12.0
	svc := newAnalyzer(Config{
		MinKnots:                MPSToKnots(minMS),
		MaxKnots:                MPSToKnots(maxMS),
		MinHoursPerDay:          1,
		RequiredConsecutiveDays: 1,
		ForecastDays:            1,
	}, "2026-04-06T09:00:00Z")

	day := mustParse("2026-04-06T00:00:00Z")
	analysis, err := svc.Analyze(HourlySeries{Readings: []HourlyReading{
		{Time: day.Add(8 * time.Hour), SpeedMS: minMS},
		{Time: day.Add(9 * time.Hour), SpeedMS: maxMS},
		{Time: day.Add(10 * time.Hour), SpeedMS: minMS - 0.01},
		{Time: day.Add(11 * time.Hour), SpeedMS: maxMS + 0.01},
	}})
	require.NoError(t, err)
	require.Equal(t, 2, analysis.Days[0].GoodHours)
}

func TestAnalyzeDetectsConsecutiveRuns(t *testing.T) {
	svc := newAnalyzer(fixtureCfg(7), "2026-04-06T09:00:00Z")

	var readings []HourlyReading
	for i, goodHours := range []int{7, 8, 0, 9, 10, 0, 0} {
		date := mustParse("2026-04-06T00:00:00Z").AddDate(0, 0, i)
		readings = append(readings, knotsAt(date, goodHours, 15)...)
		// Calm hours keep the date present in the data.
		readings = append(readings, knotsAt(date.Add(20*time.Hour), 2, 5)...)
	}

	analysis, err := svc.Analyze(HourlySeries{Readings: readings})
	require.NoError(t, err)

	counts := make([]int, 0, len(analysis.Days))
	for _, day := range analysis.Days {
		counts = append(counts, day.GoodHours)
	}
	require.Equal(t, []int{7, 8, 0, 9, 10, 0, 0}, counts)

	require.Len(t, analysis.Runs, 2)
	require.Equal(t, mustParse("2026-04-06T00:00:00Z"), analysis.Runs[0].Start())
	require.Equal(t, mustParse("2026-04-07T00:00:00Z"), analysis.Runs[0].End())
	require.Equal(t, 2, analysis.Runs[0].Len())
	require.Equal(t, mustParse("2026-04-09T00:00:00Z"), analysis.Runs[1].Start())
	require.Equal(t, mustParse("2026-04-10T00:00:00Z"), analysis.Runs[1].End())
	require.Equal(t, analysis.Runs, analysis.GoodRuns)
}

func TestAnalyzeFiltersShortRuns(t *testing.T) {
	svc := newAnalyzer(fixtureCfg(3), "2026-04-06T09:00:00Z")

	var readings []HourlyReading
	for i, goodHours := range []int{7, 0, 8} {
		date := mustParse("2026-04-06T00:00:00Z").AddDate(0, 0, i)
		readings = append(readings, knotsAt(date, goodHours, 15)...)
		readings = append(readings, knotsAt(date.Add(20*time.Hour), 2, 5)...)
	}

	analysis, err := svc.Analyze(HourlySeries{Readings: readings})
	require.NoError(t, err)
	require.Len(t, analysis.Runs, 2)
	require.Equal(t, 1, analysis.Runs[0].Len())
	require.Equal(t, 1, analysis.Runs[1].Len())
	require.Empty(t, analysis.GoodRuns)
}

func TestAnalyzeNoQualifyingHours(t *testing.T) {
	svc := newAnalyzer(fixtureCfg(3), "2026-04-06T09:00:00Z")

	var readings []HourlyReading
	for i := 0; i < 3; i++ {
		date := mustParse("2026-04-06T00:00:00Z").AddDate(0, 0, i)
		readings = append(readings, knotsAt(date, 24, 5)...)
	}

	analysis, err := svc.Analyze(HourlySeries{Readings: readings})
	require.NoError(t, err)
	require.Empty(t, analysis.Runs)
	require.Empty(t, analysis.GoodRuns)
	for _, day := range analysis.Days {
		require.Zero(t, day.GoodHours)
	}
}

func TestAnalyzeEmptySeries(t *testing.T) {
	svc := newAnalyzer(fixtureCfg(7), "2026-04-06T09:00:00Z")

	_, err := svc.Analyze(HourlySeries{})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "no_data"))
}

func TestAnalyzeHorizonBeyondData(t *testing.T) {
	svc := newAnalyzer(fixtureCfg(7), "2026-04-06T09:00:00Z")

	var readings []HourlyReading
	for i := 0; i < 2; i++ {
		date := mustParse("2026-04-06T00:00:00Z").AddDate(0, 0, i)
		readings = append(readings, knotsAt(date, 24, 15)...)
	}

	analysis, err := svc.Analyze(HourlySeries{Readings: readings})
	require.NoError(t, err)
	require.Len(t, analysis.Days, 7)
	require.Equal(t, 24, analysis.Days[0].GoodHours)
	require.Equal(t, 24, analysis.Days[1].GoodHours)
	for _, day := range analysis.Days[2:] {
		require.Zero(t, day.GoodHours)
	}
	require.Len(t, analysis.GoodRuns, 1)
	require.Equal(t, 2, analysis.GoodRuns[0].Len())
}

func TestAnalyzeIgnoresReadingsBeforeToday(t *testing.T) {
	svc := newAnalyzer(fixtureCfg(2), "2026-04-06T09:00:00Z")

	readings := knotsAt(mustParse("2026-04-05T00:00:00Z"), 24, 15)
	readings = append(readings, knotsAt(mustParse("2026-04-06T10:00:00Z"), 2, 5)...)

	analysis, err := svc.Analyze(HourlySeries{Readings: readings})
	require.NoError(t, err)
	require.Len(t, analysis.Days, 2)
	require.Equal(t, mustParse("2026-04-06T00:00:00Z"), analysis.Days[0].Date)
	require.Zero(t, analysis.Days[0].GoodHours)
	require.Empty(t, analysis.Runs)
}

func TestAnalyzeBucketsInForecastZone(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	svc := &service{
		cfg:      fixtureCfg(2),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		timezone: zone,
		now: func() time.Time {
			return mustParse("2026-04-06T08:00:00Z")
		},
	}

	// 23:00 UTC lands on the next calendar day in UTC+2.
	analysis, err := svc.Analyze(HourlySeries{Readings: []HourlyReading{
		{Time: mustParse("2026-04-06T23:00:00Z"), SpeedMS: 15 / KnotsPerMeterPerSecond},
	}})
	require.NoError(t, err)
	require.Zero(t, analysis.Days[0].GoodHours)
	require.Equal(t, 1, analysis.Days[1].GoodHours)
}

func newAnalyzer(cfg Config, now string) *service {
	return &service{
		cfg:      cfg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		timezone: time.UTC,
		now: func() time.Time {
			return mustParse(now)
		},
	}
}

func fixtureCfg(days int) Config {
	return Config{
		MinKnots:                12,
		MaxKnots:                30,
		MinHoursPerDay:          6,
		RequiredConsecutiveDays: 2,
		ForecastDays:            days,
	}
}

// knotsAt returns count hourly readings starting at ts, converted back to
// the m/s the upstream reports.
func knotsAt(ts time.Time, count int, knots float64) []HourlyReading {
	readings := make([]HourlyReading, 0, count)
	for i := 0; i < count; i++ {
		readings = append(readings, HourlyReading{
			Time:    ts.Add(time.Duration(i) * time.Hour),
			SpeedMS: knots / KnotsPerMeterPerSecond,
		})
	}
	return readings
}

func mustParse(value string) time.Time {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return ts
}
