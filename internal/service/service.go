package service

import (
	"context"
	"time"

	"battery_advisor/internal/config"
	"battery_advisor/internal/engine"
	"battery_advisor/internal/llm"
	"battery_advisor/internal/logger"
	"battery_advisor/internal/models"
	"battery_advisor/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Advisor runs the decision pipeline for one request.
type Advisor interface {
	Decide(ctx context.Context, p DecideParams) (DecisionResponse, error)
	// ModelAvailable reports fallback-client health without invoking the model.
	ModelAvailable() bool
}

// DecisionLog exposes the advisory decision history.
type DecisionLog interface {
	List(ctx context.Context, f LogFilter) ([]models.DecisionRecord, error)
	Latest(ctx context.Context) (*models.DecisionRecord, error)
}

// Devices manages user equipment metadata.
type Devices interface {
	Register(ctx context.Context, userID int, p DeviceParams) (models.Device, error)
	List(ctx context.Context, userID int) ([]models.Device, error)
}

// Service aggregates all sub-services behind one handle for the HTTP layer.
type Service struct {
	Advisor
	DecisionLog
	Devices
	Authorization
}

// Deps are the collaborators the service layer composes. The generative
// agent and forecast sources are injected so tests can fake them.
type Deps struct {
	Cfg    config.Config
	Engine *engine.Engine
	Prices PriceSource
	Solar  SolarSource
	Agent  llm.Agent
	Log    *logger.Logger
	Now    func() time.Time
}

// NewService wires the repository layer and collaborators into concrete services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{
		Advisor:       NewAdvisorService(repos.Decisions, deps),
		DecisionLog:   NewDecisionLogService(repos.Decisions),
		Devices:       NewDeviceService(repos.Devices),
		Authorization: NewAuthService(repos.Auth, deps.Cfg.Auth.SigningKey, deps.Cfg.Auth.TokenTTL),
	}
}
