package openmeteo

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/internal/domain/forecast"
)

// RateLimitedSource wraps a Source with a client-side rate limit so
// repeated invocations stay inside Open-Meteo's free-tier fair use.
type RateLimitedSource struct {
	source  Source
	limiter *rate.Limiter
}

var _ Source = (*RateLimitedSource)(nil)

// NewRateLimitedSource decorates source. rps may be fractional for less
// than one request per second; burst is the maximum burst size.
func NewRateLimitedSource(source Source, rps float64, burst int) *RateLimitedSource {
	return &RateLimitedSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Fetch waits for limiter clearance, then delegates to the wrapped source.
func (r *RateLimitedSource) Fetch(ctx context.Context, lat, lon float64, days int) (forecast.HourlySeries, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return forecast.HourlySeries{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.Fetch(ctx, lat, lon, days)
}
