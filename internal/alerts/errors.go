package alerts

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vesselwatch/biofouling-backend/internal/types"
)

// ConflictError reports a corrupted deduplication state: more than one
// open alert of the same type for one vessel. Evaluation refuses to
// proceed rather than guess which one to keep.
type ConflictError struct {
	VesselID  uuid.UUID
	AlertType string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("vessel %s has multiple open %q alerts", e.VesselID, e.AlertType)
}

// InvalidTransitionError rejects a lifecycle move the state machine does
// not allow.
type InvalidTransitionError struct {
	From types.AlertStatus
	To   types.AlertStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("alert cannot transition from %q to %q", e.From, e.To)
}
