package types

import (
	"time"

	"github.com/google/uuid"
)

// VoyageSession is an aggregated navigation period (typically one day of
// operation) with the metrics the scoring engine consumes.
type VoyageSession struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID        *int64    `gorm:"uniqueIndex;column:session_id" json:"session_id,omitempty"`
	VesselID         uuid.UUID `gorm:"type:uuid;not null;index:idx_voyage_vessel_start" json:"vessel_id"`
	Vessel           *Vessel   `gorm:"constraint:OnDelete:CASCADE;foreignKey:VesselID;references:ID" json:"vessel,omitempty"`
	EventName        string    `gorm:"column:event_name" json:"event_name,omitempty"`
	StartDate        time.Time `gorm:"not null;index:idx_voyage_vessel_start" json:"start_date"`
	EndDate          time.Time `gorm:"not null" json:"end_date"`
	DurationHours    float64   `gorm:"column:duration_hours" json:"duration_hours"`
	DistanceNM       float64   `gorm:"column:distance_nm" json:"distance_nm"`
	AvgSpeed         float64   `gorm:"column:avg_speed" json:"avg_speed"`
	AftDraft         float64   `gorm:"column:aft_draft" json:"aft_draft"`
	FwdDraft         float64   `gorm:"column:fwd_draft" json:"fwd_draft"`
	MidDraft         float64   `gorm:"column:mid_draft" json:"mid_draft"`
	Trim             float64   `gorm:"column:trim" json:"trim"`
	Displacement     float64   `gorm:"column:displacement" json:"displacement"`
	BeaufortScale    int       `gorm:"column:beaufort_scale" json:"beaufort_scale"`
	SeaCondition     string    `gorm:"column:sea_condition" json:"sea_condition,omitempty"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	FuelConsumedTons *float64  `gorm:"column:fuel_consumed_tons" json:"fuel_consumed_tons,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (VoyageSession) TableName() string { return "voyage_session" }
