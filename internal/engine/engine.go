package engine

import (
	"context"
	"errors"
	"time"

	"battery_advisor/internal/models"
)

// ErrNoCurrentPrice means the price forecast has no entry for the current
// UTC hour. That is a data-integrity failure of the upstream series, not a
// missing rule match; callers must fail the request.
var ErrNoCurrentPrice = errors.New("price forecast has no entry for the current hour")

// Input is one decision request after normalization.
type Input struct {
	SoC    float64
	Prices models.PriceForecast
	Solar  models.SolarForecast
	Now    time.Time
}

// Result is the final decision plus metadata for logging and the response.
type Result struct {
	Decision       models.Decision
	PriceEURPerKWH float64
	Source         string
	Overridden     bool
}

// Engine composes the rule evaluator, the fallback advisor, and the safety
// gate into one stateless decision pipeline. Safe for concurrent use with
// independent inputs.
type Engine struct {
	rules    Evaluator
	fallback *Fallback
	gate     SafetyGate
	bounds   models.OperatingBounds
}

func New(rules Evaluator, fallback *Fallback, gate SafetyGate, bounds models.OperatingBounds) *Engine {
	return &Engine{rules: rules, fallback: fallback, gate: gate, bounds: bounds}
}

// Decide runs normalize → rules → fallback → gate for one request. Stages
// execute strictly sequentially; only the fallback may block, bounded by its
// own timeout.
func (e *Engine) Decide(ctx context.Context, in Input) (Result, error) {
	current, ok := in.Prices.CurrentHour(in.Now)
	if !ok {
		return Result{}, ErrNoCurrentPrice
	}

	source := models.SourceRules
	candidate := e.rules.Evaluate(in.SoC, current.PriceEURPerKWH, in.Prices, in.Solar, e.bounds, in.Now)
	if candidate == nil {
		candidate = e.fallback.Advise(ctx, in.SoC, current.PriceEURPerKWH, in.Prices, in.Solar, in.Now)
		source = models.SourceFallback
	}

	final := e.gate.Apply(candidate, current.PriceEURPerKWH)
	overridden := candidate != nil && final != *candidate
	if candidate == nil || overridden {
		source = models.SourceSafety
	}

	return Result{
		Decision:       final,
		PriceEURPerKWH: current.PriceEURPerKWH,
		Source:         source,
		Overridden:     overridden,
	}, nil
}
