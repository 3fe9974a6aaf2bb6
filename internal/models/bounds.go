package models

import "fmt"

// Strategic margins applied inside the BMS hardware limits. The decision
// logic never plans past the strategic band even though the hardware would
// physically allow it.
const (
	strategicMinMargin = 10.0
	strategicMaxMargin = 5.0
)

// OperatingBounds carries the absolute BMS limits and the derived strategic
// band. Loaded once at startup and treated as immutable for the process.
type OperatingBounds struct {
	BMSMinSoC       float64 `json:"bms_min_soc"`
	BMSMaxSoC       float64 `json:"bms_max_soc"`
	StrategicMinSoC float64 `json:"strategic_min_soc"`
	StrategicMaxSoC float64 `json:"strategic_max_soc"`
}

// DeriveBounds builds OperatingBounds from the hardware limits, applying the
// strategic margins.
func DeriveBounds(bmsMin, bmsMax float64) OperatingBounds {
	return OperatingBounds{
		BMSMinSoC:       bmsMin,
		BMSMaxSoC:       bmsMax,
		StrategicMinSoC: bmsMin + strategicMinMargin,
		StrategicMaxSoC: bmsMax - strategicMaxMargin,
	}
}

// Validate enforces bms_min < strategic_min < strategic_max < bms_max.
func (b OperatingBounds) Validate() error {
	if !(b.BMSMinSoC < b.StrategicMinSoC && b.StrategicMinSoC < b.StrategicMaxSoC && b.StrategicMaxSoC < b.BMSMaxSoC) {
		return fmt.Errorf("invalid operating bounds: bms_min=%.1f strategic_min=%.1f strategic_max=%.1f bms_max=%.1f",
			b.BMSMinSoC, b.StrategicMinSoC, b.StrategicMaxSoC, b.BMSMaxSoC)
	}
	if b.BMSMinSoC < 0 || b.BMSMaxSoC > 100 {
		return fmt.Errorf("BMS limits must stay within [0,100], got min=%.1f max=%.1f", b.BMSMinSoC, b.BMSMaxSoC)
	}
	return nil
}
