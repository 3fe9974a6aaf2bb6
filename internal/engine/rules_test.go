package engine

import (
	"testing"
	"time"

	"battery_advisor/internal/models"
)

func testEvaluator() Evaluator {
	return NewEvaluator(RuleConfig{
		LowPriceEURPerKWH:  0.15,
		HighPriceEURPerKWH: 0.28,
		SolarThresholdWM2:  300,
		CheapestHours:      3,
	})
}

func testBounds() models.OperatingBounds {
	return models.DeriveBounds(5, 99) // strategic band [15, 94]
}

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

// forecastFrom builds an hourly forecast starting at the current hour.
func forecastFrom(now time.Time, prices ...float64) models.PriceForecast {
	out := make(models.PriceForecast, 0, len(prices))
	base := now.Truncate(time.Hour)
	for i, p := range prices {
		out = append(out, models.PricePoint{
			TimestampUTC:   base.Add(time.Duration(i) * time.Hour),
			PriceEURPerKWH: p,
		})
	}
	return out
}

func TestEvaluate_CriticalLowSoCHasAbsolutePriority(t *testing.T) {
	e := testEvaluator()
	bounds := testBounds()

	cases := []struct {
		name  string
		price float64
		solar models.SolarForecast
	}{
		{"cheap and dark", 0.05, models.SolarForecast{0, 0, 0}},
		{"expensive", 0.50, models.SolarForecast{0, 0, 0}},
		{"strong solar ahead", 0.20, models.SolarForecast{100, 450, 380}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dec := e.Evaluate(10, tc.price, forecastFrom(testNow, tc.price, 0.2, 0.2), tc.solar, bounds, testNow)
			if dec == nil {
				t.Fatalf("expected a decision, got nil")
			}
			if dec.Action != models.ActionChargeFromGrid {
				t.Fatalf("expected CHARGE_FROM_GRID, got %s", dec.Action)
			}
			if dec.Reason == "" {
				t.Fatalf("expected non-empty reason")
			}
		})
	}
}

func TestEvaluate_SolarDeferral(t *testing.T) {
	e := testEvaluator()
	dec := e.Evaluate(50, 0.20, forecastFrom(testNow, 0.20, 0.22, 0.25), models.SolarForecast{100, 400, 250}, testBounds(), testNow)
	if dec == nil || dec.Action != models.ActionWaitForSolar {
		t.Fatalf("expected WAIT_FOR_SOLAR, got %+v", dec)
	}
}

func TestEvaluate_SolarDeferralSkippedNearFull(t *testing.T) {
	// soc above the strategic ceiling must not wait for solar even with a
	// strong forecast; here nothing else matches either.
	e := testEvaluator()
	dec := e.Evaluate(96, 0.20, forecastFrom(testNow, 0.20, 0.22, 0.25), models.SolarForecast{400, 400, 400}, testBounds(), testNow)
	if dec != nil && dec.Action == models.ActionWaitForSolar {
		t.Fatalf("must not wait for solar at soc=96, got %+v", dec)
	}
}

func TestEvaluate_HighPriceDischarge(t *testing.T) {
	e := testEvaluator()
	dec := e.Evaluate(50, 0.30, forecastFrom(testNow, 0.30, 0.25, 0.20), models.SolarForecast{0, 0, 0}, testBounds(), testNow)
	if dec == nil || dec.Action != models.ActionDischargeToHouse {
		t.Fatalf("expected DISCHARGE_TO_HOUSE, got %+v", dec)
	}
}

func TestEvaluate_CheapHourCharge(t *testing.T) {
	e := testEvaluator()
	// Tomorrow's entry at the same hour-of-day is among the 3 cheapest
	// future hours and the current price is below the low threshold.
	base := testNow.Truncate(time.Hour)
	prices := models.PriceForecast{
		{TimestampUTC: base, PriceEURPerKWH: 0.10},
		{TimestampUTC: base.Add(1 * time.Hour), PriceEURPerKWH: 0.40},
		{TimestampUTC: base.Add(2 * time.Hour), PriceEURPerKWH: 0.40},
		{TimestampUTC: base.Add(24 * time.Hour), PriceEURPerKWH: 0.08},
	}
	dec := e.Evaluate(50, 0.10, prices, models.SolarForecast{0, 0, 0}, testBounds(), testNow)
	if dec == nil || dec.Action != models.ActionChargeFromGrid {
		t.Fatalf("expected CHARGE_FROM_GRID, got %+v", dec)
	}
}

func TestEvaluate_CheapHourChargeSkippedNearFull(t *testing.T) {
	e := testEvaluator()
	base := testNow.Truncate(time.Hour)
	prices := models.PriceForecast{
		{TimestampUTC: base, PriceEURPerKWH: 0.10},
		{TimestampUTC: base.Add(24 * time.Hour), PriceEURPerKWH: 0.08},
	}
	dec := e.Evaluate(95, 0.10, prices, models.SolarForecast{0, 0, 0}, testBounds(), testNow)
	if dec != nil {
		t.Fatalf("expected no rule match at soc=95, got %+v", dec)
	}
}

func TestEvaluate_NoMatchReturnsNil(t *testing.T) {
	e := testEvaluator()
	// Mid soc, unremarkable price, dark sky, current hour not cheap.
	dec := e.Evaluate(50, 0.20, forecastFrom(testNow, 0.20, 0.10, 0.12, 0.11), models.SolarForecast{0, 50, 100}, testBounds(), testNow)
	if dec != nil {
		t.Fatalf("expected nil candidate, got %+v", dec)
	}
}
