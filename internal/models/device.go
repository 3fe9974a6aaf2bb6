package models

import "time"

// Device is user-owned equipment metadata (battery, inverter, meter).
// Advisory registry only; devices are never controlled from here.
type Device struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	Type      string    `json:"type"`  // e.g. BATTERY, INVERTER, METER
	Model     string    `json:"model"` // vendor model name
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}
