package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"battery_advisor/internal/models"
)

func TestDeviceUpsert(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	seen := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(upsertDeviceSQL)).
		WithArgs("inv-1", 7, "INVERTER", "Fronius Symo", seen.Format(sqliteTimeLayout), seen.Format(sqliteTimeLayout)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := NewDeviceSQLite(db).Upsert(context.Background(), models.Device{
		ID:        "inv-1",
		UserID:    7,
		Type:      " inverter ",
		Model:     "Fronius Symo",
		FirstSeen: seen,
		LastSeen:  seen,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeviceUpsert_FillsTimestamps(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(upsertDeviceSQL)).
		WithArgs("bat-1", 7, "BATTERY", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := NewDeviceSQLite(db).Upsert(context.Background(), models.Device{
		ID:     "bat-1",
		UserID: 7,
		Type:   "BATTERY",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeviceUpsert_ExecError(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(upsertDeviceSQL)).
		WillReturnError(errors.New("db locked"))

	err := NewDeviceSQLite(db).Upsert(context.Background(), models.Device{ID: "bat-1", Type: "BATTERY"})
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestDeviceListByUser(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	seen := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(selectDevicesByUserSQL)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "model", "first_seen", "last_seen"}).
			AddRow("inv-1", 7, "INVERTER", "Fronius Symo", seen, seen).
			AddRow("bat-1", 7, "BATTERY", "", seen, seen.Add(time.Hour)))

	got, err := NewDeviceSQLite(db).ListByUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(got))
	}
	if got[0].ID != "inv-1" || got[0].Type != "INVERTER" {
		t.Fatalf("unexpected first device: %+v", got[0])
	}
	if !got[1].LastSeen.Equal(seen.Add(time.Hour)) {
		t.Fatalf("unexpected last_seen: %v", got[1].LastSeen)
	}
}

func TestDeviceListByUser_Empty(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectDevicesByUserSQL)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "type", "model", "first_seen", "last_seen"}))

	got, err := NewDeviceSQLite(db).ListByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no devices, got %d", len(got))
	}
}
