package types

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Water zones classified from latitude. Fouling organisms settle and grow
// fastest in warm water, so the zone drives the environmental growth rate.
const (
	WaterZoneTropical    = "tropical"
	WaterZoneSubtropical = "subtropical"
	WaterZoneTemperate   = "temperate"
)

type PositionSample struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VesselID  uuid.UUID `gorm:"type:uuid;not null;index:idx_position_vessel_time" json:"vessel_id"`
	Vessel    *Vessel   `gorm:"constraint:OnDelete:CASCADE;foreignKey:VesselID;references:ID" json:"vessel,omitempty"`
	Timestamp time.Time `gorm:"not null;index:idx_position_vessel_time" json:"timestamp"`
	Latitude  float64   `gorm:"not null" json:"latitude"`
	Longitude float64   `gorm:"not null" json:"longitude"`
	Speed     float64   `json:"speed"`
	Heading   float64   `json:"heading"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (PositionSample) TableName() string { return "position_sample" }

// WaterZone classifies the sample by absolute latitude: below 20 degrees
// tropical, below 35 subtropical, temperate beyond.
func (p *PositionSample) WaterZone() string {
	absLat := math.Abs(p.Latitude)
	switch {
	case absLat < 20:
		return WaterZoneTropical
	case absLat < 35:
		return WaterZoneSubtropical
	default:
		return WaterZoneTemperate
	}
}
