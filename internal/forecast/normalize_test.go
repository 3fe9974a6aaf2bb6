package forecast

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizePrices(t *testing.T) {
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	raw := []RawPricePoint{
		{StartUTC: base, MarketPricePerMWH: 85.90},
		{StartUTC: base.Add(time.Hour), MarketPricePerMWH: 120.0},
		{StartUTC: base.Add(2 * time.Hour), MarketPricePerMWH: -5.0},
	}

	got, err := NormalizePrices(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got))
	}
	if got[0].PriceEURPerKWH != 0.0859 {
		t.Fatalf("expected 0.0859 EUR/kWh, got %v", got[0].PriceEURPerKWH)
	}
	// Negative market prices are real and must survive normalization.
	if got[2].PriceEURPerKWH != -0.005 {
		t.Fatalf("expected -0.005 EUR/kWh, got %v", got[2].PriceEURPerKWH)
	}
}

func TestNormalizePrices_NormalizesToUTC(t *testing.T) {
	cet := time.FixedZone("CEST", 2*60*60)
	raw := []RawPricePoint{{StartUTC: time.Date(2026, 8, 31, 14, 0, 0, 0, cet), MarketPricePerMWH: 100}}

	got, err := NormalizePrices(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	if !got[0].TimestampUTC.Equal(want) || got[0].TimestampUTC.Location() != time.UTC {
		t.Fatalf("expected %v in UTC, got %v", want, got[0].TimestampUTC)
	}
}

func TestNormalizePrices_Failures(t *testing.T) {
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	if _, err := NormalizePrices(nil); !errors.Is(err, errEmptyPriceSeries) {
		t.Fatalf("expected empty-series error, got %v", err)
	}

	_, err := NormalizePrices([]RawPricePoint{{MarketPricePerMWH: 100}})
	if err == nil {
		t.Fatalf("expected error for a point without timestamp")
	}

	_, err = NormalizePrices([]RawPricePoint{
		{StartUTC: base, MarketPricePerMWH: 100},
		{StartUTC: base, MarketPricePerMWH: 110},
	})
	if err == nil {
		t.Fatalf("expected error for duplicate timestamps")
	}
}

func TestNormalizeSolar(t *testing.T) {
	got, err := NormalizeSolar([]float64{100, 200, 300}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Max() != 300 {
		t.Fatalf("daylight values must pass through, got %v", got)
	}

	got, err = NormalizeSolar([]float64{100, 200, 300}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range got {
		if v != 0 {
			t.Fatalf("night values must be zeroed, got %v at %d", v, i)
		}
	}
	if len(got) != 3 {
		t.Fatalf("night forecast must keep its length, got %d", len(got))
	}

	if _, err = NormalizeSolar(nil, true); !errors.Is(err, errEmptySolarSeries) {
		t.Fatalf("expected empty-series error, got %v", err)
	}
}
