package forecast

import (
	"testing"
	"time"
)

func TestSunCalculator(t *testing.T) {
	calc := SunCalculator{}
	// Vienna in late August: noon is daylight, 2 AM is not.
	lat, lon := 48.21, 16.37

	if !calc.IsDaylight(lat, lon, time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected daylight at noon")
	}
	if calc.IsDaylight(lat, lon, time.Date(2026, 8, 31, 2, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected night at 2 AM")
	}
}

func TestSunCalculator_PolarNight(t *testing.T) {
	calc := SunCalculator{}
	// Svalbard in late December never sees the sun.
	if calc.IsDaylight(78.22, 15.63, time.Date(2026, 12, 21, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected polar night to report no daylight")
	}
}
