package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BiofoulingIndex is one computed evaluation of a vessel's hull fouling
// severity. Rows are append-only: a new evaluation inserts a new row and
// never mutates a past one.
//
// The four component columns store the weighted contributions, so
// IndexValue is always 100 times their sum.
type BiofoulingIndex struct {
	ID                     uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VesselID               uuid.UUID      `gorm:"type:uuid;not null;index:idx_biofouling_vessel_time" json:"vessel_id"`
	Vessel                 *Vessel        `gorm:"constraint:OnDelete:CASCADE;foreignKey:VesselID;references:ID" json:"vessel,omitempty"`
	CalculatedAt           time.Time      `gorm:"not null;index:idx_biofouling_vessel_time" json:"calculated_at"`
	IndexValue             float64        `gorm:"not null;column:index_value" json:"index_value"`
	NormamLevel            int            `gorm:"not null;column:normam_level" json:"normam_level"`
	ComponentEfficiency    float64        `gorm:"column:component_efficiency" json:"component_efficiency"`
	ComponentEnvironmental float64        `gorm:"column:component_environmental" json:"component_environmental"`
	ComponentTemporal      float64        `gorm:"column:component_temporal" json:"component_temporal"`
	ComponentOperational   float64        `gorm:"column:component_operational" json:"component_operational"`
	LowConfidence          bool           `gorm:"not null;default:false;column:low_confidence" json:"low_confidence"`
	Metadata               datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt              time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (BiofoulingIndex) TableName() string { return "biofouling_index" }
