package llm

import (
	"context"

	"battery_advisor/internal/models"
)

// Situation is everything the generative model gets to see about the
// current hour.
type Situation struct {
	SoC                   float64
	CurrentPriceEURPerKWH float64
	FuturePrices          models.PriceForecast
	Solar                 models.SolarForecast
}

// Agent proposes a decision for situations the deterministic rules do not
// cover. Implementations must respect ctx deadlines and return an error for
// anything that is not a well-formed decision.
type Agent interface {
	Propose(ctx context.Context, s Situation) (models.Decision, error)
	// Available reports whether the underlying client is initialized and
	// usable. It must never invoke the model.
	Available() bool
}
