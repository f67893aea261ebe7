// Package openmeteo fetches hourly wind forecasts from the Open-Meteo API.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lepiej/hel-kitesurfing-good-forecast-trip-alert/internal/domain/forecast"
)

const defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Open-Meteo returns naive local timestamps when a timezone is requested.
const hourLayout = "2006-01-02T15:04"

// Source produces an hourly wind forecast for a location.
type Source interface {
	Fetch(ctx context.Context, lat, lon float64, days int) (forecast.HourlySeries, error)
}

var _ Source = (*Client)(nil)

// Client fetches wind speed forecasts at 10 m reference height.
type Client struct {
	baseURL    string
	location   *time.Location
	httpClient *http.Client
}

// NewClient builds an API client. Response timestamps are parsed in
// location, whose name is also sent as the timezone query parameter.
func NewClient(baseURL string, location *time.Location, timeout time.Duration) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	return &Client{
		baseURL:  strings.TrimRight(endpoint, "/"),
		location: location,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves the hourly wind forecast for the coordinates over the
// next days calendar days. It makes a single attempt; retries are the
// caller's business.
func (c *Client) Fetch(ctx context.Context, lat, lon float64, days int) (forecast.HourlySeries, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("hourly", "windspeed_10m")
	query.Set("timezone", c.location.String())
	query.Set("forecast_days", strconv.Itoa(days))
	endpoint := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return forecast.HourlySeries{}, fmt.Errorf("build forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return forecast.HourlySeries{}, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return forecast.HourlySeries{}, fmt.Errorf("forecast request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return forecast.HourlySeries{}, fmt.Errorf("read forecast response: %w", err)
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return forecast.HourlySeries{}, fmt.Errorf("decode forecast response: %w", err)
	}
	if raw.Hourly == nil {
		return forecast.HourlySeries{}, errors.New("forecast response missing hourly block")
	}

	return forecast.HourlySeries{
		Readings: zipReadings(raw.Hourly.Time, raw.Hourly.WindSpeed, c.location),
		Source:   c.baseURL,
	}, nil
}

type apiResponse struct {
	Hourly *apiHourly `json:"hourly"`
}

type apiHourly struct {
	Time      []string  `json:"time"`
	WindSpeed []float64 `json:"windspeed_10m"`
}

// zipReadings pairs the parallel time and speed arrays, truncating to the
// shorter one. Timestamps that fail to parse are skipped.
func zipReadings(times []string, speeds []float64, location *time.Location) []forecast.HourlyReading {
	n := len(times)
	if len(speeds) < n {
		n = len(speeds)
	}

	readings := make([]forecast.HourlyReading, 0, n)
	for i := 0; i < n; i++ {
		ts, err := time.ParseInLocation(hourLayout, times[i], location)
		if err != nil {
			continue
		}
		readings = append(readings, forecast.HourlyReading{
			Time:    ts,
			SpeedMS: speeds[i],
		})
	}
	return readings
}
