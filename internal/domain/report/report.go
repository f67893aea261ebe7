// Package report renders the plaintext alert email for a qualifying
// forecast.
package report

import (
	"fmt"
	"strings"

	"github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/internal/domain/forecast"
)

// Subject is the fixed subject line of every alert email.
const Subject = "Kitesurfing alert: good forecast on Hel Peninsula"

const dateLayout = "2006-01-02"

// Render builds the alert body: the per-day summary of the whole horizon,
// the thresholds the days were judged against and one line per good run.
func Render(goodRuns []forecast.Run, days []forecast.DayQualification, cfg forecast.Config) string {
	lines := []string{
		"Good kitesurfing forecast detected on Hel Peninsula",
		"",
		"Forecast summary (date: good_hours):",
	}
	for _, day := range days {
		lines = append(lines, fmt.Sprintf(" - %s: %dh", day.Date.Format(dateLayout), day.GoodHours))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("Thresholds: %g-%g knots, min %dh/day", cfg.MinKnots, cfg.MaxKnots, cfg.MinHoursPerDay),
		"",
		"Matching runs:",
	)
	for _, run := range goodRuns {
		lines = append(lines, fmt.Sprintf(" - %s to %s (%d days)",
			run.Start().Format(dateLayout), run.End().Format(dateLayout), run.Len()))
	}
	return strings.Join(lines, "\n")
}
