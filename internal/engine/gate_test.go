package engine

import (
	"testing"

	"battery_advisor/internal/models"
)

func TestSafetyGate_NilCandidateBecomesDoNothing(t *testing.T) {
	g := SafetyGate{CeilingEURPerKWH: 0.25}

	got := g.Apply(nil, 0.10)
	if got.Action != models.ActionDoNothing {
		t.Fatalf("expected DO_NOTHING, got %s", got.Action)
	}
	if got.Reason == "" {
		t.Fatalf("expected non-empty reason")
	}
}

func TestSafetyGate_BlocksGridChargeAboveCeiling(t *testing.T) {
	g := SafetyGate{CeilingEURPerKWH: 0.25}
	candidate := &models.Decision{Action: models.ActionChargeFromGrid, Reason: "critical low"}

	got := g.Apply(candidate, 0.30)
	if got.Action != models.ActionDoNothing {
		t.Fatalf("expected override to DO_NOTHING, got %s", got.Action)
	}
}

func TestSafetyGate_PassesSafeCandidates(t *testing.T) {
	g := SafetyGate{CeilingEURPerKWH: 0.25}

	cases := []models.Decision{
		{Action: models.ActionChargeFromGrid, Reason: "cheap hour"},
		{Action: models.ActionDischargeToHouse, Reason: "expensive hour"},
		{Action: models.ActionWaitForSolar, Reason: "solar ahead"},
		{Action: models.ActionDoNothing, Reason: "nothing to do"},
	}
	for _, c := range cases {
		candidate := c
		got := g.Apply(&candidate, 0.10)
		if got != c {
			t.Fatalf("candidate %s changed by gate: %+v", c.Action, got)
		}
	}
}

func TestSafetyGate_DischargeUnaffectedByCeiling(t *testing.T) {
	g := SafetyGate{CeilingEURPerKWH: 0.25}
	candidate := &models.Decision{Action: models.ActionDischargeToHouse, Reason: "expensive hour"}

	got := g.Apply(candidate, 0.40)
	if got != *candidate {
		t.Fatalf("discharge must pass at any price, got %+v", got)
	}
}

func TestSafetyGate_Idempotent(t *testing.T) {
	g := SafetyGate{CeilingEURPerKWH: 0.25}
	candidate := &models.Decision{Action: models.ActionChargeFromGrid, Reason: "cheap hour"}

	once := g.Apply(candidate, 0.30)
	twice := g.Apply(&once, 0.30)
	if once != twice {
		t.Fatalf("gate not idempotent: %+v vs %+v", once, twice)
	}
}
