package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"battery_advisor/internal/config"
	"battery_advisor/internal/engine"
	"battery_advisor/internal/llm"
	"battery_advisor/internal/logger"
	"battery_advisor/internal/models"
	"battery_advisor/internal/repository"
)

// Sentinel errors the HTTP layer maps onto status codes.
var (
	ErrInvalidSoC          = errors.New("soc must be within [0, 100]")
	ErrUpstreamUnavailable = errors.New("forecast data unavailable")
)

// persistTimeout bounds the detached fire-and-forget decision write.
const persistTimeout = 5 * time.Second

// PriceSource returns the normalized day-ahead price forecast.
type PriceSource interface {
	Forecast(ctx context.Context) (models.PriceForecast, error)
}

// SolarSource returns the normalized irradiance outlook for a location.
type SolarSource interface {
	Forecast(ctx context.Context, lat, lon float64, now time.Time) (models.SolarForecast, error)
}

// DecideParams is one decision request. Lat/Lon fall back to the configured
// site location when nil.
type DecideParams struct {
	SoC float64
	Lat *float64
	Lon *float64
}

// DecisionResponse is the API-facing decision plus auxiliary data.
type DecisionResponse struct {
	Action         models.Action `json:"action"`
	Reason         string        `json:"reason"`
	SoC            float64       `json:"soc"`
	PriceEURPerKWH float64       `json:"price_eur_kwh"`
	Savings        Savings       `json:"savings"`
}

// AdvisorService fetches forecasts, runs the decision engine, and logs the
// outcome. Stateless between requests apart from the shared read-only
// configuration and the injected clients.
type AdvisorService struct {
	cfg       config.Config
	engine    *engine.Engine
	prices    PriceSource
	solar     SolarSource
	agent     llm.Agent
	decisions repository.DecisionRepo
	log       *logger.Logger
	now       func() time.Time
}

func NewAdvisorService(decisions repository.DecisionRepo, deps Deps) *AdvisorService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &AdvisorService{
		cfg:       deps.Cfg,
		engine:    deps.Engine,
		prices:    deps.Prices,
		solar:     deps.Solar,
		agent:     deps.Agent,
		decisions: decisions,
		log:       deps.Log,
		now:       now,
	}
}

// ModelAvailable reports whether the generative-model client is initialized.
func (s *AdvisorService) ModelAvailable() bool {
	return s.agent != nil && s.agent.Available()
}

// Decide runs the full pipeline for one request. Only input errors and
// upstream data errors surface to the caller; everything inside the engine
// degrades to a safe action instead.
func (s *AdvisorService) Decide(ctx context.Context, p DecideParams) (DecisionResponse, error) {
	if p.SoC < 0 || p.SoC > 100 {
		return DecisionResponse{}, fmt.Errorf("%w: got %.1f", ErrInvalidSoC, p.SoC)
	}

	lat, lon := s.cfg.Location.Lat, s.cfg.Location.Lon
	if p.Lat != nil {
		lat = *p.Lat
	}
	if p.Lon != nil {
		lon = *p.Lon
	}

	now := s.now().UTC()
	prices, solar, err := s.fetchForecasts(ctx, lat, lon, now)
	if err != nil {
		return DecisionResponse{}, err
	}

	result, err := s.engine.Decide(ctx, engine.Input{
		SoC:    p.SoC,
		Prices: prices,
		Solar:  solar,
		Now:    now,
	})
	if err != nil {
		// The only engine error is a price series without the current hour,
		// which is an upstream data defect.
		return DecisionResponse{}, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, err)
	}

	s.persistAsync(p.SoC, now, result)

	return DecisionResponse{
		Action:         result.Decision.Action,
		Reason:         result.Decision.Reason,
		SoC:            p.SoC,
		PriceEURPerKWH: result.PriceEURPerKWH,
		Savings:        s.estimateSavings(result),
	}, nil
}

// fetchForecasts loads price and solar forecasts concurrently; they are
// independent reads. Either failure fails the request as a whole since the
// engine never decides on partial data.
func (s *AdvisorService) fetchForecasts(ctx context.Context, lat, lon float64, now time.Time) (models.PriceForecast, models.SolarForecast, error) {
	type priceResult struct {
		forecast models.PriceForecast
		err      error
	}
	type solarResult struct {
		forecast models.SolarForecast
		err      error
	}

	priceCh := make(chan priceResult, 1)
	solarCh := make(chan solarResult, 1)

	go func() {
		f, err := s.prices.Forecast(ctx)
		priceCh <- priceResult{forecast: f, err: err}
	}()
	go func() {
		f, err := s.solar.Forecast(ctx, lat, lon, now)
		solarCh <- solarResult{forecast: f, err: err}
	}()

	pr := <-priceCh
	sr := <-solarCh

	if pr.err != nil {
		return nil, nil, fmt.Errorf("%w: prices: %s", ErrUpstreamUnavailable, pr.err)
	}
	if sr.err != nil {
		return nil, nil, fmt.Errorf("%w: solar: %s", ErrUpstreamUnavailable, sr.err)
	}
	return pr.forecast, sr.forecast, nil
}

// persistAsync records the decision without blocking or failing the
// response. Detached from the request context on purpose: the write may
// outlive the request.
func (s *AdvisorService) persistAsync(soc float64, now time.Time, result engine.Result) {
	if s.decisions == nil {
		return
	}
	rec := models.DecisionRecord{
		OccurredAt:     now,
		SoC:            soc,
		PriceEURPerKWH: result.PriceEURPerKWH,
		Action:         result.Decision.Action,
		Reason:         result.Decision.Reason,
		Source:         result.Source,
		Overridden:     result.Overridden,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.decisions.Append(ctx, rec); err != nil && s.log != nil {
			s.log.Errorw("decision_persist_failed", "err", err, "action", rec.Action)
		}
	}()
}
