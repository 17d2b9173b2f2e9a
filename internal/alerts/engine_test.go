package alerts

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vesselwatch/biofouling-backend/internal/biofouling"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

func newTestRuleEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultRuleConfig(), nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func testVessel() *types.Vessel {
	return &types.Vessel{ID: uuid.New(), Name: "MT Atlantico", VesselClass: types.VesselClassAframax}
}

func snapshot(vesselID uuid.UUID, index float64, level int, at time.Time) *types.BiofoulingIndex {
	return &types.BiofoulingIndex{
		VesselID:     vesselID,
		CalculatedAt: at,
		IndexValue:   index,
		NormamLevel:  level,
	}
}

func transitionsByType(ts []Transition) map[string]Transition {
	out := make(map[string]Transition, len(ts))
	for _, t := range ts {
		out[t.Alert.AlertType] = t
	}
	return out
}

func TestHighFoulingIndexSeverity(t *testing.T) {
	engine := newTestRuleEngine(t)
	vessel := testVessel()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		index    float64
		level    int
		want     types.AlertSeverity
		triggers bool
	}{
		{name: "level_0_silent", index: 10, level: 0, triggers: false},
		{name: "level_1_silent", index: 25, level: 1, triggers: false},
		{name: "level_2_warning", index: 40, level: 2, want: types.AlertSeverityWarning, triggers: true},
		{name: "level_3_critical", index: 60, level: 3, want: types.AlertSeverityCritical, triggers: true},
		{name: "level_4_critical", index: 85, level: 4, want: types.AlertSeverityCritical, triggers: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transitions, err := engine.Evaluate(EvaluateInput{
				Vessel:  vessel,
				Current: snapshot(vessel.ID, tc.index, tc.level, now),
				Now:     now,
			}, nil)
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			byType := transitionsByType(transitions)
			tr, ok := byType[types.AlertTypeHighFoulingIndex]
			if ok != tc.triggers {
				t.Fatalf("triggered=%v, want %v", ok, tc.triggers)
			}
			if !tc.triggers {
				return
			}
			if tr.Action != TransitionCreate {
				t.Fatalf("expected create, got %s", tr.Action)
			}
			if tr.Alert.Severity != tc.want {
				t.Fatalf("severity %s, want %s", tr.Alert.Severity, tc.want)
			}
			if tr.Alert.Status != types.AlertStatusActive {
				t.Fatalf("new alert must start active, got %s", tr.Alert.Status)
			}
		})
	}
}

// Re-evaluating an unchanged condition must refresh the existing open
// alert, never stack a second one of the same type.
func TestEvaluateDeduplicates(t *testing.T) {
	engine := newTestRuleEngine(t)
	vessel := testVessel()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	in := EvaluateInput{
		Vessel:  vessel,
		Current: snapshot(vessel.ID, 60, 3, now),
		Now:     now,
	}

	first, err := engine.Evaluate(in, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(first) != 1 || first[0].Action != TransitionCreate {
		t.Fatalf("expected a single create, got %+v", first)
	}

	in.Now = now.Add(time.Hour)
	in.Current = snapshot(vessel.ID, 62, 3, in.Now)
	second, err := engine.Evaluate(in, []*types.Alert{first[0].Alert})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(second) != 1 || second[0].Action != TransitionRefresh {
		t.Fatalf("expected a single refresh, got %+v", second)
	}
	if second[0].Alert.ID != first[0].Alert.ID {
		t.Fatalf("refresh must keep the alert identity")
	}
}

func TestAcknowledgedAlertSurvivesRefresh(t *testing.T) {
	engine := newTestRuleEngine(t)
	vessel := testVessel()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	prior := &types.Alert{
		ID:        uuid.New(),
		VesselID:  vessel.ID,
		AlertType: types.AlertTypeHighFoulingIndex,
		Severity:  types.AlertSeverityWarning,
		Status:    types.AlertStatusActive,
		CreatedAt: now.Add(-24 * time.Hour),
	}
	operator := uuid.New()
	if err := Acknowledge(prior, operator, "scheduling inspection", now.Add(-time.Hour)); err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}

	// condition escalated from level 2 to level 3
	transitions, err := engine.Evaluate(EvaluateInput{
		Vessel:  vessel,
		Current: snapshot(vessel.ID, 58, 3, now),
		Now:     now,
	}, []*types.Alert{prior})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(transitions) != 1 || transitions[0].Action != TransitionRefresh {
		t.Fatalf("expected a single refresh, got %+v", transitions)
	}
	refreshed := transitions[0].Alert
	if refreshed.Status != types.AlertStatusAcknowledged {
		t.Fatalf("refresh dropped acknowledgement, status %s", refreshed.Status)
	}
	if refreshed.AcknowledgedBy == nil || *refreshed.AcknowledgedBy != operator {
		t.Fatalf("refresh dropped the acknowledging operator")
	}
	if refreshed.Severity != types.AlertSeverityCritical {
		t.Fatalf("refresh must track the escalated severity, got %s", refreshed.Severity)
	}
}

func TestClearedConditionAutoResolves(t *testing.T) {
	engine := newTestRuleEngine(t)
	vessel := testVessel()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	prior := &types.Alert{
		ID:        uuid.New(),
		VesselID:  vessel.ID,
		AlertType: types.AlertTypeHighFoulingIndex,
		Severity:  types.AlertSeverityWarning,
		Status:    types.AlertStatusActive,
	}
	transitions, err := engine.Evaluate(EvaluateInput{
		Vessel:  vessel,
		Current: snapshot(vessel.ID, 12, 0, now), // hull cleaned
		Now:     now,
	}, []*types.Alert{prior})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(transitions) != 1 || transitions[0].Action != TransitionResolve {
		t.Fatalf("expected a single resolve, got %+v", transitions)
	}
	resolved := transitions[0].Alert
	if resolved.Status != types.AlertStatusResolved || resolved.ResolvedAt == nil {
		t.Fatalf("resolve did not close the alert: %+v", resolved)
	}
}

// Once resolved, a re-triggering condition creates a fresh alert rather
// than reopening the old one.
func TestRetriggerAfterResolveCreatesNewIdentity(t *testing.T) {
	engine := newTestRuleEngine(t)
	vessel := testVessel()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	resolvedAt := now.Add(-time.Hour)
	old := &types.Alert{
		ID:         uuid.New(),
		VesselID:   vessel.ID,
		AlertType:  types.AlertTypeHighFoulingIndex,
		Severity:   types.AlertSeverityWarning,
		Status:     types.AlertStatusResolved,
		ResolvedAt: &resolvedAt,
	}
	transitions, err := engine.Evaluate(EvaluateInput{
		Vessel:  vessel,
		Current: snapshot(vessel.ID, 40, 2, now),
		Now:     now,
	}, []*types.Alert{old})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(transitions) != 1 || transitions[0].Action != TransitionCreate {
		t.Fatalf("expected a create, got %+v", transitions)
	}
	if transitions[0].Alert.ID == old.ID {
		t.Fatalf("resolved alert was reopened instead of replaced")
	}
}

func TestEvaluateRejectsDuplicateOpenAlerts(t *testing.T) {
	engine := newTestRuleEngine(t)
	vessel := testVessel()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	dup := []*types.Alert{
		{ID: uuid.New(), VesselID: vessel.ID, AlertType: types.AlertTypeHighFoulingIndex, Status: types.AlertStatusActive},
		{ID: uuid.New(), VesselID: vessel.ID, AlertType: types.AlertTypeHighFoulingIndex, Status: types.AlertStatusAcknowledged},
	}
	_, err := engine.Evaluate(EvaluateInput{
		Vessel:  vessel,
		Current: snapshot(vessel.ID, 40, 2, now),
		Now:     now,
	}, dup)
	if err == nil {
		t.Fatalf("expected a conflict error for duplicate open alerts")
	}
	if _, ok := err.(*ConflictError); !ok {
		t.Fatalf("expected *ConflictError, got %T", err)
	}
}

func TestForecastCriticalSoonEscalation(t *testing.T) {
	engine := newTestRuleEngine(t)
	vessel := testVessel()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	current := snapshot(vessel.ID, 48, 2, now)

	forecast := func(offset int) *biofouling.ForecastResult {
		return &biofouling.ForecastResult{
			Available:  true,
			Increasing: true,
			Crossings: []biofouling.BoundaryCrossing{
				{Level: 3, Boundary: 55, OffsetDays: offset, EstimatedDate: now.AddDate(0, 0, offset)},
			},
		}
	}

	// 25 days out: warning
	transitions, err := engine.Evaluate(EvaluateInput{Vessel: vessel, Current: current, Forecast: forecast(25), Now: now}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	tr, ok := transitionsByType(transitions)[types.AlertTypeForecastCriticalSoon]
	if !ok {
		t.Fatalf("expected a forecast alert at 25 days")
	}
	if tr.Alert.Severity != types.AlertSeverityWarning {
		t.Fatalf("25-day crossing should warn, got %s", tr.Alert.Severity)
	}

	// 10 days out: escalates one step
	transitions, err = engine.Evaluate(EvaluateInput{Vessel: vessel, Current: current, Forecast: forecast(10), Now: now}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	tr = transitionsByType(transitions)[types.AlertTypeForecastCriticalSoon]
	if tr.Alert == nil || tr.Alert.Severity != types.AlertSeverityCritical {
		t.Fatalf("10-day crossing should escalate to critical")
	}

	// beyond the horizon: silent
	transitions, err = engine.Evaluate(EvaluateInput{Vessel: vessel, Current: current, Forecast: forecast(45), Now: now}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if _, ok := transitionsByType(transitions)[types.AlertTypeForecastCriticalSoon]; ok {
		t.Fatalf("crossing beyond the horizon must not alert")
	}
}

func TestRapidIncreaseAndTropicalExposureRules(t *testing.T) {
	engine := newTestRuleEngine(t)
	vessel := testVessel()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	ratio := 0.85
	transitions, err := engine.Evaluate(EvaluateInput{
		Vessel:        vessel,
		Current:       snapshot(vessel.ID, 45, 2, now),
		Previous:      snapshot(vessel.ID, 30, 1, now.Add(-7*24*time.Hour)),
		TropicalRatio: &ratio,
		Now:           now,
	}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	byType := transitionsByType(transitions)
	if _, ok := byType[types.AlertTypeRapidIndexIncrease]; !ok {
		t.Fatalf("15-point jump should raise rapid_index_increase")
	}
	if _, ok := byType[types.AlertTypeTropicalExposureHigh]; !ok {
		t.Fatalf("85%% tropical exposure should raise tropical_exposure_high")
	}

	// a 10-point delta is exactly at the threshold, not over it
	small := 0.4
	transitions, err = engine.Evaluate(EvaluateInput{
		Vessel:        vessel,
		Current:       snapshot(vessel.ID, 40, 2, now),
		Previous:      snapshot(vessel.ID, 30, 1, now.Add(-7*24*time.Hour)),
		TropicalRatio: &small,
		Now:           now,
	}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	byType = transitionsByType(transitions)
	if _, ok := byType[types.AlertTypeRapidIndexIncrease]; ok {
		t.Fatalf("delta at the threshold must not alert")
	}
	if _, ok := byType[types.AlertTypeTropicalExposureHigh]; ok {
		t.Fatalf("40%% tropical exposure must not alert")
	}
}

func TestInspectionConfirmationRule(t *testing.T) {
	engine := newTestRuleEngine(t)
	vessel := testVessel()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	confirmed := 3

	transitions, err := engine.Evaluate(EvaluateInput{
		Vessel:  vessel,
		Current: snapshot(vessel.ID, 30, 1, now),
		Inspection: &types.Inspection{
			ID:                   uuid.New(),
			VesselID:             vessel.ID,
			InspectionDate:       now.AddDate(0, 0, -2),
			NormamLevelConfirmed: &confirmed,
			FoulingType:          "calcareous",
		},
		Now: now,
	}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	tr, ok := transitionsByType(transitions)[types.AlertTypeInspectionConfirmation]
	if !ok {
		t.Fatalf("confirmed level 3 should raise inspection_confirmed_fouling")
	}
	if tr.Alert.Severity != types.AlertSeverityCritical {
		t.Fatalf("confirmed level 3 should be critical, got %s", tr.Alert.Severity)
	}
}

// An inspection taken before the most recent hull cleaning describes a
// hull state that no longer exists and must not keep alerting.
func TestInspectionBeforeLastCleaningIsIgnored(t *testing.T) {
	engine := newTestRuleEngine(t)
	vessel := testVessel()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	confirmed := 3

	cleaned := now.AddDate(0, 0, -10)
	vessel.LastCleaningDate = &cleaned

	transitions, err := engine.Evaluate(EvaluateInput{
		Vessel:  vessel,
		Current: snapshot(vessel.ID, 12, 0, now),
		Inspection: &types.Inspection{
			ID:                   uuid.New(),
			VesselID:             vessel.ID,
			InspectionDate:       now.AddDate(0, 0, -30),
			NormamLevelConfirmed: &confirmed,
			FoulingType:          "calcareous",
		},
		Now: now,
	}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if _, ok := transitionsByType(transitions)[types.AlertTypeInspectionConfirmation]; ok {
		t.Fatalf("pre-cleaning inspection must not alert")
	}
}

func TestStaleInspectionIsIgnored(t *testing.T) {
	engine := newTestRuleEngine(t)
	vessel := testVessel()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	confirmed := 2

	stale := EvaluateInput{
		Vessel:  vessel,
		Current: snapshot(vessel.ID, 30, 1, now),
		Inspection: &types.Inspection{
			ID:                   uuid.New(),
			VesselID:             vessel.ID,
			InspectionDate:       now.AddDate(0, 0, -200),
			NormamLevelConfirmed: &confirmed,
			FoulingType:          "soft growth",
		},
		Now: now,
	}
	transitions, err := engine.Evaluate(stale, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if _, ok := transitionsByType(transitions)[types.AlertTypeInspectionConfirmation]; ok {
		t.Fatalf("a 200-day-old inspection must not alert with a 180-day age bound")
	}

	recent := stale
	recent.Inspection = &types.Inspection{
		ID:                   uuid.New(),
		VesselID:             vessel.ID,
		InspectionDate:       now.AddDate(0, 0, -100),
		NormamLevelConfirmed: &confirmed,
		FoulingType:          "soft growth",
	}
	transitions, err = engine.Evaluate(recent, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if _, ok := transitionsByType(transitions)[types.AlertTypeInspectionConfirmation]; !ok {
		t.Fatalf("a 100-day-old confirmed inspection should still alert")
	}
}
