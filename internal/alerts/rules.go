package alerts

import (
	"fmt"
	"time"

	"github.com/vesselwatch/biofouling-backend/internal/biofouling"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

// RuleConfig holds the alerting thresholds.
type RuleConfig struct {
	// MinLevelForAlert is the lowest NORMAM level that raises a
	// high_fouling_index alert. Below it the condition is informational
	// and suppressed unless EmitInfo is set.
	MinLevelForAlert int

	// RapidIncreaseDelta is the index-point jump between two consecutive
	// evaluations that counts as abnormal growth.
	RapidIncreaseDelta float64

	// ForecastAlertHorizonDays bounds how far ahead a projected
	// level-boundary crossing still warrants an alert.
	ForecastAlertHorizonDays int

	// EscalationHorizonDays escalates the forecast alert one severity
	// step when the crossing is this close.
	EscalationHorizonDays int

	// TropicalExposureRatio is the tropical fraction of tracked hours
	// above which exposure is flagged.
	TropicalExposureRatio float64

	// InspectionMaxAgeDays bounds how old an inspection may be and still
	// confirm the current hull condition.
	InspectionMaxAgeDays int

	EmitInfo bool
}

func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		MinLevelForAlert:         2,
		RapidIncreaseDelta:       10,
		ForecastAlertHorizonDays: 30,
		EscalationHorizonDays:    14,
		TropicalExposureRatio:    0.7,
		InspectionMaxAgeDays:     180,
	}
}

func (c RuleConfig) Validate() error {
	if c.MinLevelForAlert < 1 || c.MinLevelForAlert > 4 {
		return &biofouling.InvalidConfigurationError{Reason: "minimum alert level must be within 1..4"}
	}
	if c.RapidIncreaseDelta <= 0 {
		return &biofouling.InvalidConfigurationError{Reason: "rapid increase delta must be positive"}
	}
	if c.ForecastAlertHorizonDays <= 0 || c.EscalationHorizonDays <= 0 || c.EscalationHorizonDays > c.ForecastAlertHorizonDays {
		return &biofouling.InvalidConfigurationError{Reason: "forecast alert horizons misconfigured"}
	}
	if c.TropicalExposureRatio <= 0 || c.TropicalExposureRatio >= 1 {
		return &biofouling.InvalidConfigurationError{Reason: "tropical exposure ratio must be within (0,1)"}
	}
	if c.InspectionMaxAgeDays <= 0 {
		return &biofouling.InvalidConfigurationError{Reason: "inspection max age must be positive"}
	}
	return nil
}

// candidate is a rule firing for one vessel in one evaluation pass.
type candidate struct {
	Type     string
	Severity types.AlertSeverity
	Title    string
	Message  string
	Details  map[string]interface{}
	Actions  []string
}

// severityForLevel maps a NORMAM level to alert severity: levels 0-1 are
// informational, 2 warns, 3 and 4 are critical.
func severityForLevel(level int) types.AlertSeverity {
	switch {
	case level >= 3:
		return types.AlertSeverityCritical
	case level == 2:
		return types.AlertSeverityWarning
	default:
		return types.AlertSeverityInfo
	}
}

func escalate(s types.AlertSeverity) types.AlertSeverity {
	switch s {
	case types.AlertSeverityInfo:
		return types.AlertSeverityWarning
	case types.AlertSeverityWarning:
		return types.AlertSeverityCritical
	default:
		return s
	}
}

// evaluateRules runs every rule over the evaluation input and returns the
// firing candidates in a stable order.
func (e *Engine) evaluateRules(in EvaluateInput) []candidate {
	var out []candidate
	if c := e.highFoulingIndexRule(in); c != nil {
		out = append(out, *c)
	}
	if c := e.forecastCriticalSoonRule(in); c != nil {
		out = append(out, *c)
	}
	if c := e.rapidIncreaseRule(in); c != nil {
		out = append(out, *c)
	}
	if c := e.tropicalExposureRule(in); c != nil {
		out = append(out, *c)
	}
	if c := e.inspectionConfirmationRule(in); c != nil {
		out = append(out, *c)
	}
	return out
}

func (e *Engine) highFoulingIndexRule(in EvaluateInput) *candidate {
	if in.Current == nil {
		return nil
	}
	level := in.Current.NormamLevel
	minLevel := e.cfg.MinLevelForAlert
	if e.cfg.EmitInfo && minLevel > 1 {
		minLevel = 1
	}
	if level < minLevel {
		return nil
	}
	return &candidate{
		Type:     types.AlertTypeHighFoulingIndex,
		Severity: severityForLevel(level),
		Title:    fmt.Sprintf("Hull fouling at NORMAM level %d", level),
		Message: fmt.Sprintf("Biofouling index is %.1f (NORMAM level %d) for vessel %s.",
			in.Current.IndexValue, level, in.Vessel.Name),
		Details: map[string]interface{}{
			"index_value":  in.Current.IndexValue,
			"normam_level": level,
		},
		Actions: actionsForLevel(level),
	}
}

func actionsForLevel(level int) []string {
	switch {
	case level >= 4:
		return []string{"Schedule dry-dock hull treatment", "Restrict voyages to essential routes"}
	case level == 3:
		return []string{"Schedule in-water hull cleaning", "Plan an inspection to confirm coverage"}
	case level == 2:
		return []string{"Book an in-water inspection", "Review recent fuel consumption trend"}
	default:
		return []string{"Continue routine monitoring"}
	}
}

func (e *Engine) forecastCriticalSoonRule(in EvaluateInput) *candidate {
	fc := in.Forecast
	if fc == nil || !fc.Available || !fc.Increasing {
		return nil
	}
	var hit *biofouling.BoundaryCrossing
	for i := range fc.Crossings {
		c := &fc.Crossings[i]
		if c.Level < 3 || c.OffsetDays > e.cfg.ForecastAlertHorizonDays {
			continue
		}
		if hit == nil || c.OffsetDays < hit.OffsetDays {
			hit = c
		}
	}
	if hit == nil {
		return nil
	}
	severity := types.AlertSeverityWarning
	if hit.OffsetDays <= e.cfg.EscalationHorizonDays {
		severity = escalate(severity)
	}
	return &candidate{
		Type:     types.AlertTypeForecastCriticalSoon,
		Severity: severity,
		Title:    fmt.Sprintf("Level %d fouling projected within %d days", hit.Level, hit.OffsetDays),
		Message: fmt.Sprintf("The fouling index of vessel %s is projected to cross %.0f (NORMAM level %d) around %s.",
			in.Vessel.Name, hit.Boundary, hit.Level, hit.EstimatedDate.Format("2006-01-02")),
		Details: map[string]interface{}{
			"projected_level": hit.Level,
			"boundary":        hit.Boundary,
			"offset_days":     hit.OffsetDays,
			"estimated_date":  hit.EstimatedDate.Format("2006-01-02"),
			"forecast_model":  fc.Confidence.Model,
		},
		Actions: []string{"Bring the next cleaning window forward", "Re-evaluate after the next voyage"},
	}
}

func (e *Engine) rapidIncreaseRule(in EvaluateInput) *candidate {
	if in.Current == nil || in.Previous == nil {
		return nil
	}
	delta := in.Current.IndexValue - in.Previous.IndexValue
	if delta <= e.cfg.RapidIncreaseDelta {
		return nil
	}
	return &candidate{
		Type:     types.AlertTypeRapidIndexIncrease,
		Severity: types.AlertSeverityWarning,
		Title:    "Fouling index rising abnormally fast",
		Message: fmt.Sprintf("Index of vessel %s jumped %.1f points since the previous evaluation (%.1f to %.1f).",
			in.Vessel.Name, delta, in.Previous.IndexValue, in.Current.IndexValue),
		Details: map[string]interface{}{
			"previous_value": in.Previous.IndexValue,
			"current_value":  in.Current.IndexValue,
			"delta":          delta,
		},
		Actions: []string{"Verify recent voyage and position data", "Consider an early inspection"},
	}
}

func (e *Engine) tropicalExposureRule(in EvaluateInput) *candidate {
	if in.TropicalRatio == nil {
		return nil
	}
	ratio := *in.TropicalRatio
	if ratio <= e.cfg.TropicalExposureRatio {
		return nil
	}
	return &candidate{
		Type:     types.AlertTypeTropicalExposureHigh,
		Severity: types.AlertSeverityWarning,
		Title:    "Sustained tropical water exposure",
		Message: fmt.Sprintf("Vessel %s spent %.0f%% of tracked hours in tropical waters, where fouling growth is fastest.",
			in.Vessel.Name, ratio*100),
		Details: map[string]interface{}{
			"tropical_ratio": ratio,
			"threshold":      e.cfg.TropicalExposureRatio,
		},
		Actions: []string{"Shorten the inspection interval while trading in tropical waters"},
	}
}

func (e *Engine) inspectionConfirmationRule(in EvaluateInput) *candidate {
	insp := in.Inspection
	if insp == nil || insp.NormamLevelConfirmed == nil {
		return nil
	}
	// A survey predating the last hull cleaning describes the old hull.
	if in.Vessel != nil && in.Vessel.LastCleaningDate != nil && insp.InspectionDate.Before(*in.Vessel.LastCleaningDate) {
		return nil
	}
	if in.Now.Sub(insp.InspectionDate) > time.Duration(e.cfg.InspectionMaxAgeDays)*24*time.Hour {
		return nil
	}
	level := *insp.NormamLevelConfirmed
	if level < e.cfg.MinLevelForAlert {
		return nil
	}
	return &candidate{
		Type:     types.AlertTypeInspectionConfirmation,
		Severity: severityForLevel(level),
		Title:    fmt.Sprintf("Inspection confirmed NORMAM level %d fouling", level),
		Message: fmt.Sprintf("In-water inspection of vessel %s on %s confirmed NORMAM level %d fouling.",
			in.Vessel.Name, insp.InspectionDate.Format("2006-01-02"), level),
		Details: map[string]interface{}{
			"inspection_id":          insp.ID,
			"inspection_date":        insp.InspectionDate.Format("2006-01-02"),
			"normam_level_confirmed": level,
			"fouling_type":           insp.FoulingType,
		},
		Actions: actionsForLevel(level),
	}
}
