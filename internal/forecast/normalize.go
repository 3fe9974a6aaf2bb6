package forecast

import (
	"errors"
	"fmt"
	"time"

	"battery_advisor/internal/models"
)

// RawPricePoint is a provider price entry before normalization. Market
// prices arrive in currency per MWh.
type RawPricePoint struct {
	StartUTC          time.Time
	MarketPricePerMWH float64
}

var (
	errEmptyPriceSeries = errors.New("price forecast is empty")
	errEmptySolarSeries = errors.New("solar forecast is empty")
)

// NormalizePrices converts raw market entries into the canonical forecast:
// timestamps in UTC, prices in EUR/kWh. Missing or duplicated data is a
// failure here, never repaired; no price data means no safe decision.
func NormalizePrices(points []RawPricePoint) (models.PriceForecast, error) {
	if len(points) == 0 {
		return nil, errEmptyPriceSeries
	}
	seen := make(map[int64]struct{}, len(points))
	out := make(models.PriceForecast, 0, len(points))
	for _, p := range points {
		if p.StartUTC.IsZero() {
			return nil, errors.New("price point without timestamp")
		}
		ts := p.StartUTC.UTC()
		key := ts.Unix()
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate price timestamp %s", ts.Format(time.RFC3339))
		}
		seen[key] = struct{}{}
		out = append(out, models.PricePoint{
			TimestampUTC:   ts,
			PriceEURPerKWH: p.MarketPricePerMWH / 1000.0,
		})
	}
	return out, nil
}

// NormalizeSolar produces the canonical irradiance array. When the site is
// outside daylight the provider readings are not trusted and every value is
// replaced with zero.
func NormalizeSolar(values []float64, daylight bool) (models.SolarForecast, error) {
	if len(values) == 0 {
		return nil, errEmptySolarSeries
	}
	out := make(models.SolarForecast, len(values))
	if daylight {
		copy(out, values)
	}
	return out, nil
}
