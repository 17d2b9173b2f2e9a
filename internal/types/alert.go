package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AlertSeverity string

const (
	AlertSeverityInfo     AlertSeverity = "info"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityCritical AlertSeverity = "critical"
)

type AlertStatus string

// Alert lifecycle. Transitions are monotone: active -> acknowledged ->
// resolved, or active -> resolved. A resolved alert is terminal; a later
// re-trigger creates a new Alert identity.
const (
	AlertStatusActive       AlertStatus = "active"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
)

const (
	AlertTypeHighFoulingIndex       = "high_fouling_index"
	AlertTypeForecastCriticalSoon   = "forecast_critical_soon"
	AlertTypeRapidIndexIncrease     = "rapid_index_increase"
	AlertTypeTropicalExposureHigh   = "tropical_exposure_high"
	AlertTypeInspectionConfirmation = "inspection_confirmed_fouling"
)

type Alert struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VesselID           uuid.UUID      `gorm:"type:uuid;not null;index:idx_alert_vessel_status" json:"vessel_id"`
	Vessel             *Vessel        `gorm:"constraint:OnDelete:CASCADE;foreignKey:VesselID;references:ID" json:"vessel,omitempty"`
	AlertType          string         `gorm:"not null;index;column:alert_type" json:"alert_type"`
	Severity           AlertSeverity  `gorm:"not null;index;column:severity" json:"severity"`
	Title              string         `gorm:"not null" json:"title"`
	Message            string         `gorm:"type:text;not null" json:"message"`
	Details            datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	RecommendedActions datatypes.JSON `gorm:"type:jsonb;column:recommended_actions" json:"recommended_actions,omitempty"`
	Status             AlertStatus    `gorm:"not null;index:idx_alert_vessel_status;column:status" json:"status"`
	AcknowledgedAt     *time.Time     `gorm:"column:acknowledged_at" json:"acknowledged_at,omitempty"`
	AcknowledgedBy     *uuid.UUID     `gorm:"type:uuid;column:acknowledged_by" json:"acknowledged_by,omitempty"`
	AcknowledgedNotes  *string        `gorm:"type:text;column:acknowledged_notes" json:"acknowledged_notes,omitempty"`
	ResolvedAt         *time.Time     `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Alert) TableName() string { return "alert" }

// Open reports whether the alert still occupies its (vessel, type)
// deduplication slot.
func (a *Alert) Open() bool {
	return a.Status == AlertStatusActive || a.Status == AlertStatusAcknowledged
}
