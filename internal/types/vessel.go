package types

import (
	"time"

	"github.com/google/uuid"
)

// Vessel classes with known clean-hull baselines.
const (
	VesselClassAframax = "Aframax"
	VesselClassSuezmax = "Suezmax"
	VesselClassMR2     = "MR2"
	VesselClassGas7k   = "Gas 7k"
)

type Vessel struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name             string     `gorm:"uniqueIndex;not null;column:name" json:"name"`
	VesselClass      string     `gorm:"not null;index;column:vessel_class" json:"vessel_class"`
	VesselType       string     `gorm:"column:vessel_type" json:"vessel_type,omitempty"`
	GrossTonnage     *int       `gorm:"column:gross_tonnage" json:"gross_tonnage,omitempty"`
	LengthM          *float64   `gorm:"column:length_m" json:"length_m,omitempty"`
	BeamM            *float64   `gorm:"column:beam_m" json:"beam_m,omitempty"`
	DraftM           *float64   `gorm:"column:draft_m" json:"draft_m,omitempty"`
	LastCleaningDate *time.Time `gorm:"type:date;column:last_cleaning_date" json:"last_cleaning_date,omitempty"`
	CreatedAt        time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (Vessel) TableName() string { return "vessel" }

// DaysSinceCleaning returns the elapsed days since the last recorded hull
// cleaning, or ok=false when no cleaning is on record.
func (v *Vessel) DaysSinceCleaning(now time.Time) (int, bool) {
	if v.LastCleaningDate == nil {
		return 0, false
	}
	return int(now.Sub(*v.LastCleaningDate).Hours() / 24), true
}
