package types

import (
	"time"

	"github.com/google/uuid"
)

// Inspection is an in-water hull survey. Confirmed NORMAM levels serve as
// ground truth against the computed index.
type Inspection struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VesselID             uuid.UUID `gorm:"type:uuid;not null;index:idx_inspection_vessel_date" json:"vessel_id"`
	Vessel               *Vessel   `gorm:"constraint:OnDelete:CASCADE;foreignKey:VesselID;references:ID" json:"vessel,omitempty"`
	InspectionDate       time.Time `gorm:"type:date;not null;index:idx_inspection_vessel_date" json:"inspection_date"`
	Location             string    `json:"location,omitempty"`
	NormamLevelConfirmed *int      `gorm:"column:normam_level_confirmed" json:"normam_level_confirmed,omitempty"`
	HullConditionPct     *int      `gorm:"column:hull_condition_pct" json:"hull_condition_pct,omitempty"`
	FoulingType          string    `gorm:"type:text;column:fouling_type" json:"fouling_type,omitempty"`
	Notes                string    `gorm:"type:text" json:"notes,omitempty"`
	InspectorName        string    `gorm:"column:inspector_name" json:"inspector_name,omitempty"`
	CreatedAt            time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Inspection) TableName() string { return "inspection" }
