package repository

import (
	"context"
	"database/sql"
	"time"

	"battery_advisor/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// DecisionRepo is the advisory decision log. Writes are fire-and-forget
// from the decision path's perspective.
type DecisionRepo interface {
	Append(ctx context.Context, rec models.DecisionRecord) error
	List(ctx context.Context, from, to time.Time, action string) ([]models.DecisionRecord, error)
	Latest(ctx context.Context) (*models.DecisionRecord, error)
}

// DeviceRepo stores user equipment metadata with upsert semantics.
type DeviceRepo interface {
	Upsert(ctx context.Context, d models.Device) error
	ListByUser(ctx context.Context, userID int) ([]models.Device, error)
}

type Repository struct {
	Decisions DecisionRepo
	Devices   DeviceRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Decisions: NewDecisionSQLite(db),
		Devices:   NewDeviceSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
