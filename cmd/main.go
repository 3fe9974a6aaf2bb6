package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"battery_advisor/internal/config"
	"battery_advisor/internal/engine"
	"battery_advisor/internal/forecast"
	"battery_advisor/internal/handlers"
	"battery_advisor/internal/llm"
	"battery_advisor/internal/logger"
	"battery_advisor/internal/repository"
	"battery_advisor/internal/repository/db"
	"battery_advisor/internal/server"
	"battery_advisor/internal/service"

	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger level comes from the config; fall back to info for this one path.
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel)

	sqlite, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlite.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlite)
	services := service.NewService(repos, buildDeps(cfg, log))
	apiHandler := handlers.NewHandler(services, log)

	// browser dashboards talk to the API cross-origin
	routes := cors.AllowAll().Handler(apiHandler.InitRoutes())

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, routes, log)

	waitForShutdown(srv, log)
}

// buildDeps assembles the forecast clients, the generative-model agent, and
// the decision engine from configuration. The agent is a single shared
// handle; it initializes itself lazily exactly once.
func buildDeps(cfg config.Config, log *logger.Logger) service.Deps {
	agent := llm.NewGemini(cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.APIKey)

	bounds := cfg.Bounds()
	eng := engine.New(
		engine.NewEvaluator(engine.RuleConfig{
			LowPriceEURPerKWH:  cfg.Rules.LowPriceEURPerKWH,
			HighPriceEURPerKWH: cfg.Rules.HighPriceEURPerKWH,
			SolarThresholdWM2:  cfg.Rules.SolarThresholdWM2,
			CheapestHours:      cfg.Rules.CheapestHours,
		}),
		engine.NewFallback(agent, cfg.LLM.Timeout, log),
		engine.SafetyGate{CeilingEURPerKWH: cfg.Safety.PriceCeilingEURPerKWH},
		bounds,
	)

	return service.Deps{
		Cfg:    cfg,
		Engine: eng,
		Prices: forecast.NewPriceClient(cfg.Providers.AwattarURL, cfg.Providers.Timeout),
		Solar: forecast.NewSolarClient(
			cfg.Providers.OpenMeteoURL,
			cfg.Providers.SolarHours,
			forecast.SunCalculator{},
			cfg.Providers.Timeout,
		),
		Agent: agent,
		Log:   log,
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler http.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler); err != nil && err != http.ErrServerClosed {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
