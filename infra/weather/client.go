// Package weather fetches historical hourly temperatures from the
// open-meteo archive API. Fetching happens once at setup, outside the
// simulation's hot loop.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kilianp07/assetsim/core/logger"
	coreweather "github.com/kilianp07/assetsim/core/weather"
)

const defaultBaseURL = "https://archive-api.open-meteo.com/v1/archive"

// Client retrieves archived weather data over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
	log     logger.Logger
}

// NewClient returns a client for the archive API. An empty baseURL selects
// the public endpoint.
func NewClient(baseURL string, log logger.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		log:     log,
	}
}

type archiveResponse struct {
	Hourly struct {
		Time        []string  `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
	} `json:"hourly"`
}

// FetchSeries retrieves hourly temperatures for the location and period and
// interpolates them to 5-minute resolution.
func (c *Client) FetchSeries(ctx context.Context, lat, lon, alt float64, start, end time.Time) (coreweather.Ref, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("elevation", fmt.Sprintf("%.0f", alt))
	q.Set("start_date", start.Format("2006-01-02"))
	q.Set("end_date", end.Format("2006-01-02"))
	q.Set("hourly", "temperature_2m")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Warnf("close weather response: %v", cerr)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch weather: unexpected status %s", resp.Status)
	}

	var payload archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode weather: %w", err)
	}
	if len(payload.Hourly.Temperature) == 0 {
		return nil, coreweather.ErrNoData
	}
	seriesStart := start
	if len(payload.Hourly.Time) > 0 {
		if t, err := time.Parse("2006-01-02T15:04", payload.Hourly.Time[0]); err == nil {
			seriesStart = t
		}
	}
	c.log.Infof("fetched %d hourly samples from %s", len(payload.Hourly.Temperature), c.baseURL)
	return coreweather.NewSeries(seriesStart, payload.Hourly.Temperature, 5*time.Minute)
}
