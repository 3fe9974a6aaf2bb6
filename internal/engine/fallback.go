package engine

import (
	"context"
	"sort"
	"time"

	"battery_advisor/internal/llm"
	"battery_advisor/internal/logger"
	"battery_advisor/internal/models"
)

// At most this many future price entries are shown to the model.
const maxPromptPrices = 8

// Fallback consults the generative-model agent when no rule matched. Every
// failure mode (timeout, transport error, malformed response, unavailable
// client) collapses to a nil candidate; nothing propagates past this
// boundary.
type Fallback struct {
	agent   llm.Agent
	timeout time.Duration
	log     *logger.Logger
}

func NewFallback(agent llm.Agent, timeout time.Duration, log *logger.Logger) *Fallback {
	return &Fallback{agent: agent, timeout: timeout, log: log}
}

// Advise asks the agent for a decision under a hard wall-clock budget.
func (f *Fallback) Advise(ctx context.Context, soc, currentPrice float64, prices models.PriceForecast, solar models.SolarForecast, now time.Time) *models.Decision {
	if f == nil || f.agent == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	future := prices.Future(now)
	sort.Slice(future, func(i, j int) bool {
		return future[i].TimestampUTC.Before(future[j].TimestampUTC)
	})
	if len(future) > maxPromptPrices {
		future = future[:maxPromptPrices]
	}

	dec, err := f.agent.Propose(ctx, llm.Situation{
		SoC:                   soc,
		CurrentPriceEURPerKWH: currentPrice,
		FuturePrices:          future,
		Solar:                 solar,
	})
	if err != nil {
		if f.log != nil {
			f.log.Warnw("fallback_advisor_failed", "err", err)
		}
		return nil
	}
	return &dec
}
