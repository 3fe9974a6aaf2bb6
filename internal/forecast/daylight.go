package forecast

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// DaylightChecker reports whether a location is currently between sunrise
// and sunset.
type DaylightChecker interface {
	IsDaylight(lat, lon float64, now time.Time) bool
}

// SunCalculator computes sunrise/sunset locally, no network involved.
type SunCalculator struct{}

// IsDaylight returns true when now (UTC) falls between today's sunrise and
// sunset at the given coordinates. During polar night the library returns
// zero times and we report night, which keeps solar input zeroed.
func (SunCalculator) IsDaylight(lat, lon float64, now time.Time) bool {
	now = now.UTC()
	rise, set := sunrise.SunriseSunset(lat, lon, now.Year(), now.Month(), now.Day())
	if rise.IsZero() || set.IsZero() {
		return false
	}
	return now.After(rise) && now.Before(set)
}
