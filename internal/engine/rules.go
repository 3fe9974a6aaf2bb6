package engine

import (
	"fmt"
	"time"

	"battery_advisor/internal/models"
)

// RuleConfig holds the thresholds of the deterministic rules.
type RuleConfig struct {
	LowPriceEURPerKWH  float64
	HighPriceEURPerKWH float64
	SolarThresholdWM2  float64
	CheapestHours      int
}

// Evaluator runs the ordered rule sequence. Rules are checked in strict
// priority order and the first match wins; no match returns nil to hand the
// situation to the fallback advisor.
type Evaluator struct {
	cfg RuleConfig
}

func NewEvaluator(cfg RuleConfig) Evaluator {
	return Evaluator{cfg: cfg}
}

// Evaluate applies the rule chain for the current hour.
func (e Evaluator) Evaluate(soc, currentPrice float64, prices models.PriceForecast, solar models.SolarForecast, bounds models.OperatingBounds, now time.Time) *models.Decision {
	// Rule 1: strategic floor breached. Absolute priority over every other
	// signal, including a high grid price.
	if soc < bounds.StrategicMinSoC {
		return &models.Decision{
			Action: models.ActionChargeFromGrid,
			Reason: fmt.Sprintf("SoC %.1f%% is below the strategic floor of %.1f%%; starting safety charge", soc, bounds.StrategicMinSoC),
		}
	}

	// Rule 2: strong solar expected and room left in the battery.
	if peak := solar.Max(); peak > e.cfg.SolarThresholdWM2 && soc < bounds.StrategicMaxSoC {
		return &models.Decision{
			Action: models.ActionWaitForSolar,
			Reason: fmt.Sprintf("solar forecast peaks at %.0f W/m² and battery is below %.1f%%; waiting for solar", peak, bounds.StrategicMaxSoC),
		}
	}

	// Rule 3: expensive hour, enough charge to cover the house.
	if soc > bounds.StrategicMinSoC && currentPrice > e.cfg.HighPriceEURPerKWH {
		return &models.Decision{
			Action: models.ActionDischargeToHouse,
			Reason: fmt.Sprintf("grid price %.4f EUR/kWh is above %.2f and SoC is above %.1f%%; discharging to house", currentPrice, e.cfg.HighPriceEURPerKWH, bounds.StrategicMinSoC),
		}
	}

	// Rule 4: this hour ranks among the cheapest upcoming hours and the
	// price is genuinely low.
	if e.isCheapHour(prices, now) && currentPrice < e.cfg.LowPriceEURPerKWH && soc < bounds.StrategicMaxSoC {
		return &models.Decision{
			Action: models.ActionChargeFromGrid,
			Reason: fmt.Sprintf("current hour is among the %d cheapest at %.4f EUR/kWh; charging up to %.1f%%", e.cfg.CheapestHours, currentPrice, bounds.StrategicMaxSoC),
		}
	}

	return nil
}

// isCheapHour reports whether the current UTC hour-of-day matches one of the
// N cheapest future forecast hours.
func (e Evaluator) isCheapHour(prices models.PriceForecast, now time.Time) bool {
	cheapest := prices.CheapestFuture(now, e.cfg.CheapestHours)
	hour := now.UTC().Hour()
	for _, p := range cheapest {
		if p.TimestampUTC.UTC().Hour() == hour {
			return true
		}
	}
	return false
}
