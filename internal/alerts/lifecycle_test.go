package alerts

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vesselwatch/biofouling-backend/internal/types"
)

func activeAlert() *types.Alert {
	return &types.Alert{
		ID:        uuid.New(),
		VesselID:  uuid.New(),
		AlertType: types.AlertTypeHighFoulingIndex,
		Severity:  types.AlertSeverityWarning,
		Status:    types.AlertStatusActive,
	}
}

func TestAcknowledge(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	operator := uuid.New()

	a := activeAlert()
	if err := Acknowledge(a, operator, "looking into it", now); err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
	if a.Status != types.AlertStatusAcknowledged {
		t.Fatalf("status %s, want acknowledged", a.Status)
	}
	if a.AcknowledgedBy == nil || *a.AcknowledgedBy != operator {
		t.Fatalf("acknowledging operator not recorded")
	}
	if a.AcknowledgedAt == nil || !a.AcknowledgedAt.Equal(now) {
		t.Fatalf("acknowledged_at not recorded")
	}
	if a.AcknowledgedNotes == nil || *a.AcknowledgedNotes != "looking into it" {
		t.Fatalf("notes not recorded")
	}

	// second acknowledgement is rejected
	if err := Acknowledge(a, uuid.New(), "", now.Add(time.Minute)); err == nil {
		t.Fatalf("expected error acknowledging twice")
	}
}

func TestResolveFromActiveAndAcknowledged(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	a := activeAlert()
	if err := Resolve(a, now); err != nil {
		t.Fatalf("Resolve from active: %v", err)
	}
	if a.Status != types.AlertStatusResolved || a.ResolvedAt == nil {
		t.Fatalf("alert not resolved: %+v", a)
	}

	b := activeAlert()
	if err := Acknowledge(b, uuid.New(), "", now); err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
	if err := Resolve(b, now.Add(time.Hour)); err != nil {
		t.Fatalf("Resolve from acknowledged: %v", err)
	}
}

func TestResolvedIsTerminal(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	a := activeAlert()
	if err := Resolve(a, now); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if err := Resolve(a, now.Add(time.Minute)); err == nil {
		t.Fatalf("expected error resolving twice")
	}
	err := Acknowledge(a, uuid.New(), "", now.Add(time.Minute))
	if err == nil {
		t.Fatalf("expected error acknowledging a resolved alert")
	}
	if _, ok := err.(*InvalidTransitionError); !ok {
		t.Fatalf("expected *InvalidTransitionError, got %T", err)
	}
}
