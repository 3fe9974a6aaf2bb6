package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"battery_advisor/internal/models"
)

type DeviceSQLite struct {
	db *sql.DB
}

func NewDeviceSQLite(db *sql.DB) *DeviceSQLite { return &DeviceSQLite{db: db} }

var _ DeviceRepo = (*DeviceSQLite)(nil)

const (
	// Upsert keeps first_seen from the original row and bumps last_seen,
	// so re-registering a device never duplicates it.
	upsertDeviceSQL = `
		INSERT INTO devices (id, user_id, type, model, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type=excluded.type,
			model=excluded.model,
			last_seen=excluded.last_seen
	`

	selectDevicesByUserSQL = `
		SELECT id, user_id, type, model, first_seen, last_seen
		FROM devices WHERE user_id = ? ORDER BY first_seen ASC
	`
)

// Upsert inserts or refreshes a device row.
func (r *DeviceSQLite) Upsert(ctx context.Context, d models.Device) error {
	now := time.Now().UTC()
	if d.FirstSeen.IsZero() {
		d.FirstSeen = now
	}
	if d.LastSeen.IsZero() {
		d.LastSeen = now
	}

	_, err := r.db.ExecContext(ctx, upsertDeviceSQL,
		d.ID,
		d.UserID,
		strings.ToUpper(strings.TrimSpace(d.Type)),
		d.Model,
		d.FirstSeen.UTC().Format(sqliteTimeLayout),
		d.LastSeen.UTC().Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("upsert device %q: %w", d.ID, err)
	}
	return nil
}

// ListByUser returns all devices registered by a user.
func (r *DeviceSQLite) ListByUser(ctx context.Context, userID int) ([]models.Device, error) {
	rows, err := r.db.QueryContext(ctx, selectDevicesByUserSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Device, 0, 8)
	for rows.Next() {
		var d models.Device
		if err := rows.Scan(&d.ID, &d.UserID, &d.Type, &d.Model, &d.FirstSeen, &d.LastSeen); err != nil {
			return nil, err
		}
		d.FirstSeen = d.FirstSeen.UTC()
		d.LastSeen = d.LastSeen.UTC()
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
