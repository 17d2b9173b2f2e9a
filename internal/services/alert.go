package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vesselwatch/biofouling-backend/internal/alerts"
	"github.com/vesselwatch/biofouling-backend/internal/biofouling"
	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/repos"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

// forecastHistoryLimit bounds how many evaluations feed the trend fit
// behind the forecast_critical_soon rule.
const forecastHistoryLimit = 30

type AlertService interface {
	// CheckVessel gathers the rule inputs for a fresh index snapshot,
	// runs the rule engine and applies every transition in a single
	// transaction.
	CheckVessel(ctx context.Context, vessel *types.Vessel, current *types.BiofoulingIndex, tropicalRatio *float64) ([]alerts.Transition, error)
	Acknowledge(ctx context.Context, alertID, operatorID uuid.UUID, notes string) (*types.Alert, error)
	Resolve(ctx context.Context, alertID uuid.UUID) (*types.Alert, error)
	List(ctx context.Context, filter repos.AlertFilter) ([]*types.Alert, int64, error)
}

type alertService struct {
	db             *gorm.DB
	log            *logger.Logger
	engine         *biofouling.Engine
	ruleEngine     *alerts.Engine
	alertRepo      repos.AlertRepo
	indexRepo      repos.BiofoulingIndexRepo
	inspectionRepo repos.InspectionRepo
}

func NewAlertService(
	db *gorm.DB,
	log *logger.Logger,
	engine *biofouling.Engine,
	ruleEngine *alerts.Engine,
	alertRepo repos.AlertRepo,
	indexRepo repos.BiofoulingIndexRepo,
	inspectionRepo repos.InspectionRepo,
) AlertService {
	serviceLog := log.With("service", "AlertService")
	return &alertService{
		db:             db,
		log:            serviceLog,
		engine:         engine,
		ruleEngine:     ruleEngine,
		alertRepo:      alertRepo,
		indexRepo:      indexRepo,
		inspectionRepo: inspectionRepo,
	}
}

func (as *alertService) CheckVessel(ctx context.Context, vessel *types.Vessel, current *types.BiofoulingIndex, tropicalRatio *float64) ([]alerts.Transition, error) {
	previous, err := as.indexRepo.GetPrevious(ctx, nil, current)
	if err != nil {
		return nil, fmt.Errorf("failed to load previous index: %w", err)
	}

	history, err := as.indexRepo.ListRecent(ctx, nil, vessel.ID, forecastHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load index history: %w", err)
	}
	points := make([]biofouling.IndexPoint, 0, len(history))
	for _, h := range history {
		points = append(points, biofouling.IndexPoint{At: h.CalculatedAt, Value: h.IndexValue})
	}
	forecast := as.engine.Forecast(points, []int{30, 60, 90})

	inspection, err := as.inspectionRepo.GetLatest(ctx, nil, vessel.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest inspection: %w", err)
	}

	priorOpen, err := as.alertRepo.GetOpenByVessel(ctx, nil, vessel.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load open alerts: %w", err)
	}

	transitions, err := as.ruleEngine.Evaluate(alerts.EvaluateInput{
		Vessel:        vessel,
		Current:       current,
		Previous:      previous,
		Forecast:      &forecast,
		TropicalRatio: tropicalRatio,
		Inspection:    inspection,
		Now:           current.CalculatedAt,
	}, priorOpen)
	if err != nil {
		return nil, err
	}
	if len(transitions) == 0 {
		return nil, nil
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range transitions {
			switch t.Action {
			case alerts.TransitionCreate:
				if _, err := as.alertRepo.Create(ctx, tx, t.Alert); err != nil {
					return err
				}
			case alerts.TransitionRefresh, alerts.TransitionResolve:
				if _, err := as.alertRepo.Update(ctx, tx, t.Alert); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply alert transitions: %w", err)
	}
	return transitions, nil
}

func (as *alertService) Acknowledge(ctx context.Context, alertID, operatorID uuid.UUID, notes string) (*types.Alert, error) {
	alert, err := as.alertRepo.GetByID(ctx, nil, alertID)
	if err != nil {
		return nil, fmt.Errorf("alert lookup failed: %w", err)
	}
	if err := alerts.Acknowledge(alert, operatorID, notes, time.Now().UTC()); err != nil {
		return nil, err
	}
	updated, err := as.alertRepo.Update(ctx, nil, alert)
	if err != nil {
		return nil, fmt.Errorf("failed to persist acknowledgement: %w", err)
	}
	as.log.Info("Alert acknowledged", "alert_id", alertID, "operator_id", operatorID)
	return updated, nil
}

func (as *alertService) Resolve(ctx context.Context, alertID uuid.UUID) (*types.Alert, error) {
	alert, err := as.alertRepo.GetByID(ctx, nil, alertID)
	if err != nil {
		return nil, fmt.Errorf("alert lookup failed: %w", err)
	}
	if err := alerts.Resolve(alert, time.Now().UTC()); err != nil {
		return nil, err
	}
	updated, err := as.alertRepo.Update(ctx, nil, alert)
	if err != nil {
		return nil, fmt.Errorf("failed to persist resolution: %w", err)
	}
	as.log.Info("Alert resolved", "alert_id", alertID)
	return updated, nil
}

func (as *alertService) List(ctx context.Context, filter repos.AlertFilter) ([]*types.Alert, int64, error) {
	return as.alertRepo.List(ctx, nil, filter)
}
