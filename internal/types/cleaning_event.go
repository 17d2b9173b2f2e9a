package types

import (
	"time"

	"github.com/google/uuid"
)

// HullCleaningEvent records a hull cleaning. Recording one also advances
// the vessel's last_cleaning_date, which resets the temporal component.
type HullCleaningEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VesselID  uuid.UUID `gorm:"type:uuid;not null;index" json:"vessel_id"`
	Vessel    *Vessel   `gorm:"constraint:OnDelete:CASCADE;foreignKey:VesselID;references:ID" json:"vessel,omitempty"`
	CleanedAt time.Time `gorm:"not null" json:"cleaned_at"`
	Method    string    `json:"method,omitempty"`
	Cost      *float64  `json:"cost,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (HullCleaningEvent) TableName() string { return "hull_cleaning_event" }
