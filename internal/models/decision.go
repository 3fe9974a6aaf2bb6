package models

import "time"

// Sources identify which stage produced a decision.
const (
	SourceRules    = "RULES"
	SourceFallback = "FALLBACK"
	SourceSafety   = "SAFETY"
)

// Decision is the sole output contract of the engine: what to do and why.
type Decision struct {
	Action Action `json:"action"`
	Reason string `json:"reason"`
}

// DecisionRecord is the persisted form of a decision, enriched with the
// inputs it was made from. Storage is advisory; the record never feeds
// back into decision logic.
type DecisionRecord struct {
	ID             string    `json:"id"`
	OccurredAt     time.Time `json:"occurred_at"`
	SoC            float64   `json:"soc"`
	PriceEURPerKWH float64   `json:"price_eur_kwh"`
	Action         Action    `json:"action"`
	Reason         string    `json:"reason"`
	Source         string    `json:"source"` // RULES | FALLBACK | SAFETY
	Overridden     bool      `json:"overridden"`
}
