package models

import (
	"sort"
	"time"
)

// PricePoint is one hour of the day-ahead spot price forecast.
type PricePoint struct {
	TimestampUTC   time.Time `json:"timestamp_utc"`
	PriceEURPerKWH float64   `json:"price_eur_kwh"`
}

// PriceForecast is an hourly spot-price series. Timestamps are unique and
// normalized to UTC; order is not significant for lookups.
type PriceForecast []PricePoint

// CurrentHour returns the entry whose timestamp shares the same UTC date and
// hour as now. The second return is false when no such entry exists, which
// callers must treat as a data-integrity failure rather than a miss.
func (f PriceForecast) CurrentHour(now time.Time) (PricePoint, bool) {
	now = now.UTC()
	for _, p := range f {
		ts := p.TimestampUTC.UTC()
		if ts.Year() == now.Year() && ts.YearDay() == now.YearDay() && ts.Hour() == now.Hour() {
			return p, true
		}
	}
	return PricePoint{}, false
}

// Future returns the entries strictly after now, in original order.
func (f PriceForecast) Future(now time.Time) PriceForecast {
	now = now.UTC()
	out := make(PriceForecast, 0, len(f))
	for _, p := range f {
		if p.TimestampUTC.After(now) {
			out = append(out, p)
		}
	}
	return out
}

// CheapestFuture returns up to n future entries sorted ascending by price,
// ties broken by earliest timestamp.
func (f PriceForecast) CheapestFuture(now time.Time, n int) PriceForecast {
	future := f.Future(now)
	sort.SliceStable(future, func(i, j int) bool {
		if future[i].PriceEURPerKWH != future[j].PriceEURPerKWH {
			return future[i].PriceEURPerKWH < future[j].PriceEURPerKWH
		}
		return future[i].TimestampUTC.Before(future[j].TimestampUTC)
	})
	if n < len(future) {
		future = future[:n]
	}
	return future
}

// SolarForecast is the irradiance outlook in W/m², indexed by hour offset
// from now. All zero when the site is outside daylight hours.
type SolarForecast []float64

// Max returns the peak irradiance over the horizon, 0 for an empty forecast.
func (s SolarForecast) Max() float64 {
	var max float64
	for _, v := range s {
		if v > max {
			max = v
		}
	}
	return max
}
