package service

import (
	"battery_advisor/internal/engine"
	"battery_advisor/internal/models"
)

// Savings is a rough per-kWh estimate of what the chosen action saves
// compared to buying every kWh at the fixed reference tariff. Advisory
// output only; it never influences the decision.
type Savings struct {
	ReferencePriceEURPerKWH float64 `json:"reference_price_eur_kwh"`
	EstimatedEURPerKWH      float64 `json:"estimated_eur_kwh"`
}

func (s *AdvisorService) estimateSavings(result engine.Result) Savings {
	ref := s.cfg.Savings.ReferencePriceEURPerKWH
	out := Savings{ReferencePriceEURPerKWH: ref}

	switch result.Decision.Action {
	case models.ActionDischargeToHouse:
		// Every kWh served from the battery avoids the current spot price.
		out.EstimatedEURPerKWH = result.PriceEURPerKWH
	case models.ActionChargeFromGrid:
		// Charging now instead of at the reference tariff.
		out.EstimatedEURPerKWH = ref - result.PriceEURPerKWH
	case models.ActionWaitForSolar:
		// Solar energy displaces reference-priced grid energy.
		out.EstimatedEURPerKWH = ref
	default:
		out.EstimatedEURPerKWH = 0
	}

	if out.EstimatedEURPerKWH < 0 {
		out.EstimatedEURPerKWH = 0
	}
	return out
}
