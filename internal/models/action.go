package models

import "fmt"

// Action is the operating instruction for the battery for the current hour.
// Keep these values stable; they are persisted and returned over the API.
type Action string

const (
	ActionChargeFromGrid   Action = "CHARGE_FROM_GRID"
	ActionDischargeToHouse Action = "DISCHARGE_TO_HOUSE"
	ActionWaitForSolar     Action = "WAIT_FOR_SOLAR"
	ActionDoNothing        Action = "DO_NOTHING"
)

// Valid reports whether a is one of the four known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionChargeFromGrid, ActionDischargeToHouse, ActionWaitForSolar, ActionDoNothing:
		return true
	}
	return false
}

// ParseAction converts a raw string into an Action or fails.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}
