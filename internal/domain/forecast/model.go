package forecast

import "time"

// HourlyReading is a single hourly wind sample from the upstream forecast.
type HourlyReading struct {
	Time    time.Time
	SpeedMS float64
}

// HourlySeries represents the hourly wind forecast fetched from upstream.
type HourlySeries struct {
	Readings []HourlyReading
	Source   string
}

// DayQualification counts the rideable hours of one forecast day. Date is
// midnight in the forecast timezone.
type DayQualification struct {
	Date      time.Time
	GoodHours int
}

// Run is a stretch of consecutive calendar days that all qualified.
type Run struct {
	Days []DayQualification
}

// Start returns the date of the run's first day.
func (r Run) Start() time.Time {
	if len(r.Days) == 0 {
		return time.Time{}
	}
	return r.Days[0].Date
}

// End returns the date of the run's last day.
func (r Run) End() time.Time {
	if len(r.Days) == 0 {
		return time.Time{}
	}
	return r.Days[len(r.Days)-1].Date
}

// Len returns the number of days in the run.
func (r Run) Len() int {
	return len(r.Days)
}

// Analysis is the full outcome of judging one forecast horizon.
type Analysis struct {
	Days     []DayQualification
	Runs     []Run
	GoodRuns []Run
}

// Config carries the thresholds a forecast is judged against.
type Config struct {
	MinKnots                float64
	MaxKnots                float64
	MinHoursPerDay          int
	RequiredConsecutiveDays int
	ForecastDays            int
}
