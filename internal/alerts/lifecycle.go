package alerts

import (
	"time"

	"github.com/google/uuid"

	"github.com/vesselwatch/biofouling-backend/internal/types"
)

// Acknowledge moves an active alert to acknowledged. Any other starting
// status is rejected; acknowledging twice is an invalid transition, not a
// no-op, so operators see who got there first.
func Acknowledge(a *types.Alert, operatorID uuid.UUID, notes string, now time.Time) error {
	if a.Status != types.AlertStatusActive {
		return &InvalidTransitionError{From: a.Status, To: types.AlertStatusAcknowledged}
	}
	a.Status = types.AlertStatusAcknowledged
	a.AcknowledgedAt = &now
	a.AcknowledgedBy = &operatorID
	if notes != "" {
		a.AcknowledgedNotes = &notes
	}
	a.UpdatedAt = now
	return nil
}

// Resolve closes an alert from active or acknowledged. Resolved is
// terminal.
func Resolve(a *types.Alert, now time.Time) error {
	if !a.Open() {
		return &InvalidTransitionError{From: a.Status, To: types.AlertStatusResolved}
	}
	a.Status = types.AlertStatusResolved
	a.ResolvedAt = &now
	a.UpdatedAt = now
	return nil
}
