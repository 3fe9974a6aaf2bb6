package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"battery_advisor/internal/models"
)

// SolarClient fetches the shortwave irradiance outlook from Open-Meteo.
type SolarClient struct {
	url      string
	hours    int
	daylight DaylightChecker
	client   *http.Client
}

func NewSolarClient(baseURL string, hours int, daylight DaylightChecker, timeout time.Duration) *SolarClient {
	return &SolarClient{
		url:      baseURL,
		hours:    hours,
		daylight: daylight,
		client:   &http.Client{Timeout: timeout},
	}
}

type openMeteoResponse struct {
	Hourly *openMeteoHourly `json:"hourly"`
}

type openMeteoHourly struct {
	ShortwaveRadiation []float64 `json:"shortwave_radiation"`
}

// Forecast returns the normalized irradiance array for the next hours
// starting at now. Values are zeroed when the site is outside daylight.
func (c *SolarClient) Forecast(ctx context.Context, lat, lon float64, now time.Time) (models.SolarForecast, error) {
	raw, err := c.fetch(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	start := now.Hour()
	if start >= len(raw) {
		return nil, fmt.Errorf("solar series too short: %d values, need hour %d", len(raw), start)
	}
	end := start + c.hours
	if end > len(raw) {
		end = len(raw)
	}

	return NormalizeSolar(raw[start:end], c.daylight.IsDaylight(lat, lon, now))
}

func (c *SolarClient) fetch(ctx context.Context, lat, lon float64) ([]float64, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("hourly", "shortwave_radiation")
	q.Set("forecast_days", "1")
	q.Set("timezone", "UTC")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch solar forecast: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("open-meteo error %d: %s", resp.StatusCode, string(body))
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode solar forecast: %w", err)
	}
	if payload.Hourly == nil || len(payload.Hourly.ShortwaveRadiation) == 0 {
		return nil, errors.New("solar forecast missing hourly shortwave_radiation")
	}
	return payload.Hourly.ShortwaveRadiation, nil
}
