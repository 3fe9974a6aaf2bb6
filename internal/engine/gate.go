package engine

import (
	"fmt"

	"battery_advisor/internal/models"
)

// SafetyGate is the final, non-bypassable check. Every candidate passes
// through it regardless of whether rules or the fallback produced it.
type SafetyGate struct {
	CeilingEURPerKWH float64
}

// Apply downgrades unsafe candidates. A nil candidate (rules deferred and
// the fallback failed) becomes DO_NOTHING, as does grid charging above the
// price ceiling. Applying the gate twice yields the same result as once.
func (g SafetyGate) Apply(candidate *models.Decision, currentPrice float64) models.Decision {
	if candidate == nil {
		return models.Decision{
			Action: models.ActionDoNothing,
			Reason: "no valid recommendation could be produced; holding current state",
		}
	}
	if candidate.Action == models.ActionChargeFromGrid && currentPrice > g.CeilingEURPerKWH {
		return models.Decision{
			Action: models.ActionDoNothing,
			Reason: fmt.Sprintf("safety override: grid charge blocked at %.4f EUR/kWh (ceiling %.2f)", currentPrice, g.CeilingEURPerKWH),
		}
	}
	return *candidate
}
