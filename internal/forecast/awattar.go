package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"battery_advisor/internal/models"
)

// PriceClient fetches day-ahead spot prices from the aWATTar market data API.
type PriceClient struct {
	url    string
	client *http.Client
}

func NewPriceClient(url string, timeout time.Duration) *PriceClient {
	return &PriceClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type awattarResponse struct {
	Data []awattarPoint `json:"data"`
}

// awattarPoint timestamps are unix milliseconds, prices EUR/MWh.
type awattarPoint struct {
	StartTimestamp *int64   `json:"start_timestamp"`
	EndTimestamp   *int64   `json:"end_timestamp"`
	MarketPrice    *float64 `json:"marketprice"`
	Unit           string   `json:"unit"`
}

// Forecast returns the normalized hourly price forecast. Entries missing
// either timestamp or price are skipped; an entirely unusable payload fails.
func (c *PriceClient) Forecast(ctx context.Context) (models.PriceForecast, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch market data: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("awattar error %d: %s", resp.StatusCode, string(body))
	}

	var payload awattarResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode market data: %w", err)
	}

	raw := make([]RawPricePoint, 0, len(payload.Data))
	for _, p := range payload.Data {
		if p.StartTimestamp == nil || p.MarketPrice == nil {
			continue
		}
		raw = append(raw, RawPricePoint{
			StartUTC:          time.UnixMilli(*p.StartTimestamp).UTC(),
			MarketPricePerMWH: *p.MarketPrice,
		})
	}
	return NormalizePrices(raw)
}
