package alerts

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/vesselwatch/biofouling-backend/internal/biofouling"
	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

// Engine turns one evaluation snapshot into alert transitions. It is pure
// rule logic: callers load the inputs and persist the outputs.
type Engine struct {
	cfg RuleConfig
	log *logger.Logger
}

func NewEngine(cfg RuleConfig, log *logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log != nil {
		log = log.With("component", "alert_engine")
	}
	return &Engine{cfg: cfg, log: log}, nil
}

func (e *Engine) Config() RuleConfig { return e.cfg }

// EvaluateInput is everything the rules look at for one vessel.
type EvaluateInput struct {
	Vessel   *types.Vessel
	Current  *types.BiofoulingIndex
	Previous *types.BiofoulingIndex
	Forecast *biofouling.ForecastResult
	// TropicalRatio is the tropical share of tracked exposure hours,
	// nil when the vessel reported no positions.
	TropicalRatio *float64
	// Inspection is the most recent survey, if any.
	Inspection *types.Inspection
	Now        time.Time
}

type TransitionAction string

const (
	TransitionCreate  TransitionAction = "create"
	TransitionRefresh TransitionAction = "refresh"
	TransitionResolve TransitionAction = "resolve"
)

// Transition is one storage action the caller must apply: insert for
// create, update for refresh and resolve.
type Transition struct {
	Action TransitionAction
	Alert  *types.Alert
}

// Evaluate dedupes firing rules against the open alerts and auto-resolves
// open alerts whose condition cleared. Per vessel and alert type at most
// one open alert exists afterward; a still-firing open alert is refreshed
// in place and keeps its status, so acknowledgements survive
// re-evaluation. Resolved alerts are never reopened.
func (e *Engine) Evaluate(in EvaluateInput, priorOpen []*types.Alert) ([]Transition, error) {
	open := make(map[string]*types.Alert, len(priorOpen))
	for _, a := range priorOpen {
		if !a.Open() {
			continue
		}
		if _, dup := open[a.AlertType]; dup {
			return nil, &ConflictError{VesselID: in.Vessel.ID, AlertType: a.AlertType}
		}
		open[a.AlertType] = a
	}

	var transitions []Transition
	firing := make(map[string]bool)
	for _, c := range e.evaluateRules(in) {
		firing[c.Type] = true
		if prior, ok := open[c.Type]; ok {
			transitions = append(transitions, Transition{
				Action: TransitionRefresh,
				Alert:  refreshAlert(prior, c, in.Now),
			})
			continue
		}
		if c.Severity == types.AlertSeverityInfo && !e.cfg.EmitInfo {
			continue
		}
		transitions = append(transitions, Transition{
			Action: TransitionCreate,
			Alert:  newAlert(in.Vessel.ID, c, in.Now),
		})
	}

	for _, a := range priorOpen {
		if !a.Open() || firing[a.AlertType] {
			continue
		}
		resolved := *a
		resolvedAt := in.Now
		resolved.Status = types.AlertStatusResolved
		resolved.ResolvedAt = &resolvedAt
		resolved.UpdatedAt = in.Now
		transitions = append(transitions, Transition{Action: TransitionResolve, Alert: &resolved})
	}

	if e.log != nil {
		e.log.Debug("Alert evaluation complete",
			"vessel_id", in.Vessel.ID,
			"firing", len(firing),
			"transitions", len(transitions))
	}
	return transitions, nil
}

func newAlert(vesselID uuid.UUID, c candidate, now time.Time) *types.Alert {
	return &types.Alert{
		ID:                 uuid.New(),
		VesselID:           vesselID,
		AlertType:          c.Type,
		Severity:           c.Severity,
		Title:              c.Title,
		Message:            c.Message,
		Details:            mustJSON(c.Details),
		RecommendedActions: mustJSON(c.Actions),
		Status:             types.AlertStatusActive,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// refreshAlert carries the prior identity and status forward with the
// latest rule output. Severity follows the current condition, so an
// acknowledged warning escalates to critical without losing the
// acknowledgement.
func refreshAlert(prior *types.Alert, c candidate, now time.Time) *types.Alert {
	next := *prior
	next.Severity = c.Severity
	next.Title = c.Title
	next.Message = c.Message
	next.Details = mustJSON(c.Details)
	next.RecommendedActions = mustJSON(c.Actions)
	next.UpdatedAt = now
	return &next
}

func mustJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(b)
}
