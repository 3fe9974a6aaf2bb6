package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"battery_advisor/internal/models"
	"battery_advisor/internal/repository"

	"github.com/google/uuid"
)

// DeviceParams describe equipment being registered.
type DeviceParams struct {
	ID    string
	Type  string
	Model string
}

var errDeviceTypeRequired = errors.New("device type is required")

type DeviceService struct {
	devices repository.DeviceRepo
}

func NewDeviceService(devices repository.DeviceRepo) *DeviceService {
	return &DeviceService{devices: devices}
}

// Register upserts a device for a user. Re-registering an existing ID
// refreshes last_seen instead of creating a duplicate.
func (s *DeviceService) Register(ctx context.Context, userID int, p DeviceParams) (models.Device, error) {
	typ := strings.ToUpper(strings.TrimSpace(p.Type))
	if typ == "" {
		return models.Device{}, errDeviceTypeRequired
	}
	id := strings.TrimSpace(p.ID)
	if id == "" {
		id = uuid.NewString()
	}

	now := time.Now().UTC()
	d := models.Device{
		ID:        id,
		UserID:    userID,
		Type:      typ,
		Model:     strings.TrimSpace(p.Model),
		FirstSeen: now,
		LastSeen:  now,
	}
	if err := s.devices.Upsert(ctx, d); err != nil {
		return models.Device{}, err
	}
	return d, nil
}

func (s *DeviceService) List(ctx context.Context, userID int) ([]models.Device, error) {
	return s.devices.ListByUser(ctx, userID)
}
