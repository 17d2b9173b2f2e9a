package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vesselwatch/biofouling-backend/internal/alerts"
	"github.com/vesselwatch/biofouling-backend/internal/biofouling"
	"github.com/vesselwatch/biofouling-backend/internal/cache"
	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/repos"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

const latestIndexTTL = 15 * time.Minute

func latestIndexKey(vesselID uuid.UUID) string {
	return "biofouling:latest:" + vesselID.String()
}

// EvaluationResult is one vessel's computed index plus the alert
// transitions it produced.
type EvaluationResult struct {
	Index       *types.BiofoulingIndex `json:"index"`
	NewAlerts   []*types.Alert         `json:"new_alerts,omitempty"`
	ResolvedIDs []uuid.UUID            `json:"resolved_alert_ids,omitempty"`
}

// FleetEvaluation is the fan-out outcome: per-vessel results and the
// errors that did not stop the rest of the fleet.
type FleetEvaluation struct {
	Evaluated []*EvaluationResult `json:"evaluated"`
	Failed    map[string]string   `json:"failed,omitempty"`
}

type BiofoulingService interface {
	// Evaluate computes and persists a new index for the vessel, then
	// runs the alert rules against the fresh snapshot.
	Evaluate(ctx context.Context, vesselID uuid.UUID) (*EvaluationResult, error)
	Latest(ctx context.Context, vesselID uuid.UUID) (*types.BiofoulingIndex, error)
	Timeline(ctx context.Context, vesselID uuid.UUID, limit int) ([]*types.BiofoulingIndex, error)
	// EvaluateFleet evaluates every vessel concurrently, one goroutine
	// per vessel so each vessel's pipeline stays serialized.
	EvaluateFleet(ctx context.Context) (*FleetEvaluation, error)
}

type biofoulingService struct {
	db           *gorm.DB
	log          *logger.Logger
	engine       *biofouling.Engine
	cache        *cache.Cache
	vesselRepo   repos.VesselRepo
	voyageRepo   repos.VoyageSessionRepo
	positionRepo repos.PositionSampleRepo
	indexRepo    repos.BiofoulingIndexRepo
	alertService AlertService

	// windowDays bounds how far back telemetry is loaded per evaluation.
	windowDays int
	// fleetLimit bounds concurrent vessel evaluations in the fan-out.
	fleetLimit int
}

func NewBiofoulingService(
	db *gorm.DB,
	log *logger.Logger,
	engine *biofouling.Engine,
	c *cache.Cache,
	vesselRepo repos.VesselRepo,
	voyageRepo repos.VoyageSessionRepo,
	positionRepo repos.PositionSampleRepo,
	indexRepo repos.BiofoulingIndexRepo,
	alertService AlertService,
	windowDays int,
	fleetLimit int,
) BiofoulingService {
	serviceLog := log.With("service", "BiofoulingService")
	if windowDays <= 0 {
		windowDays = 90
	}
	if fleetLimit <= 0 {
		fleetLimit = 8
	}
	return &biofoulingService{
		db:           db,
		log:          serviceLog,
		engine:       engine,
		cache:        c,
		vesselRepo:   vesselRepo,
		voyageRepo:   voyageRepo,
		positionRepo: positionRepo,
		indexRepo:    indexRepo,
		alertService: alertService,
		windowDays:   windowDays,
		fleetLimit:   fleetLimit,
	}
}

func (bs *biofoulingService) Evaluate(ctx context.Context, vesselID uuid.UUID) (*EvaluationResult, error) {
	vessel, err := bs.vesselRepo.GetByID(ctx, nil, vesselID)
	if err != nil {
		return nil, fmt.Errorf("vessel lookup failed: %w", err)
	}

	now := time.Now().UTC()
	since := now.AddDate(0, 0, -bs.windowDays)

	sessions, err := bs.voyageRepo.ListForWindow(ctx, nil, vesselID, since, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load voyage sessions: %w", err)
	}
	positions, err := bs.positionRepo.ListForWindow(ctx, nil, vesselID, since, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}

	result := bs.engine.ComputeIndex(vessel, sessions, positions, now)
	record, err := bs.persist(ctx, vessel, result)
	if err != nil {
		return nil, err
	}

	bs.cache.Delete(ctx, latestIndexKey(vesselID))

	tropical := tropicalRatio(bs.engine, positions)
	transitions, err := bs.alertService.CheckVessel(ctx, vessel, record, tropical)
	if err != nil {
		return nil, fmt.Errorf("alert evaluation failed: %w", err)
	}

	out := &EvaluationResult{Index: record}
	for _, t := range transitions {
		switch t.Action {
		case alerts.TransitionCreate, alerts.TransitionRefresh:
			out.NewAlerts = append(out.NewAlerts, t.Alert)
		case alerts.TransitionResolve:
			out.ResolvedIDs = append(out.ResolvedIDs, t.Alert.ID)
		}
	}
	bs.log.Info("Vessel evaluated",
		"vessel_id", vesselID,
		"index", record.IndexValue,
		"normam_level", record.NormamLevel,
		"alerts", len(out.NewAlerts),
		"resolved", len(out.ResolvedIDs))
	return out, nil
}

func (bs *biofoulingService) persist(ctx context.Context, vessel *types.Vessel, result biofouling.IndexResult) (*types.BiofoulingIndex, error) {
	meta, err := json.Marshal(map[string]interface{}{
		"raw_scores": map[string]interface{}{
			"efficiency":    result.Scores.Efficiency.Score,
			"environmental": result.Scores.Environmental.Score,
			"temporal":      result.Scores.Temporal.Score,
			"operational":   result.Scores.Operational.Score,
		},
		"insufficient": map[string]bool{
			"efficiency":    result.Scores.Efficiency.Insufficient,
			"environmental": result.Scores.Environmental.Insufficient,
			"temporal":      result.Scores.Temporal.Insufficient,
			"operational":   result.Scores.Operational.Insufficient,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode index metadata: %w", err)
	}

	record := &types.BiofoulingIndex{
		VesselID:               vessel.ID,
		CalculatedAt:           result.CalculatedAt,
		IndexValue:             result.IndexValue,
		NormamLevel:            result.NormamLevel,
		ComponentEfficiency:    result.Contributions.Efficiency,
		ComponentEnvironmental: result.Contributions.Environmental,
		ComponentTemporal:      result.Contributions.Temporal,
		ComponentOperational:   result.Contributions.Operational,
		LowConfidence:          result.LowConfidence,
		Metadata:               datatypes.JSON(meta),
	}
	if _, err := bs.indexRepo.Create(ctx, nil, record); err != nil {
		return nil, fmt.Errorf("failed to persist index: %w", err)
	}
	return record, nil
}

// tropicalRatio is the tropical share of tracked exposure hours, nil when
// the vessel reported no positions.
func tropicalRatio(engine *biofouling.Engine, positions []*types.PositionSample) *float64 {
	if len(positions) == 0 {
		return nil
	}
	hours := engine.ExposureHours(positions)
	var total float64
	for _, h := range hours {
		total += h
	}
	if total <= 0 {
		return nil
	}
	ratio := hours[types.WaterZoneTropical] / total
	return &ratio
}

func (bs *biofoulingService) Latest(ctx context.Context, vesselID uuid.UUID) (*types.BiofoulingIndex, error) {
	key := latestIndexKey(vesselID)
	var cached types.BiofoulingIndex
	if err := bs.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}
	latest, err := bs.indexRepo.GetLatest(ctx, nil, vesselID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest index: %w", err)
	}
	if latest != nil {
		bs.cache.Set(ctx, key, latest, latestIndexTTL)
	}
	return latest, nil
}

func (bs *biofoulingService) Timeline(ctx context.Context, vesselID uuid.UUID, limit int) ([]*types.BiofoulingIndex, error) {
	if limit <= 0 {
		limit = 100
	}
	return bs.indexRepo.ListRecent(ctx, nil, vesselID, limit)
}

func (bs *biofoulingService) EvaluateFleet(ctx context.Context) (*FleetEvaluation, error) {
	vessels, err := bs.vesselRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list vessels: %w", err)
	}

	results := make([]*EvaluationResult, len(vessels))
	errs := make([]error, len(vessels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bs.fleetLimit)
	for i, v := range vessels {
		i, v := i, v
		g.Go(func() error {
			res, err := bs.Evaluate(gctx, v.ID)
			if err != nil {
				// one vessel failing must not sink the fleet pass
				errs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &FleetEvaluation{}
	for i, v := range vessels {
		if errs[i] != nil {
			if out.Failed == nil {
				out.Failed = make(map[string]string)
			}
			out.Failed[v.ID.String()] = errs[i].Error()
			bs.log.Warn("Fleet evaluation failed for vessel", "vessel_id", v.ID, "error", errs[i])
			continue
		}
		out.Evaluated = append(out.Evaluated, results[i])
	}
	bs.log.Info("Fleet evaluation complete", "vessels", len(vessels), "failed", len(out.Failed))
	return out, nil
}
