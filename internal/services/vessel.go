package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/repos"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

type VesselService interface {
	Create(ctx context.Context, vessel *types.Vessel) (*types.Vessel, error)
	GetByID(ctx context.Context, vesselID uuid.UUID) (*types.Vessel, error)
	List(ctx context.Context) ([]*types.Vessel, error)
	// RecordCleaning stores the event and advances the vessel's
	// last_cleaning_date in the same transaction.
	RecordCleaning(ctx context.Context, event *types.HullCleaningEvent) (*types.HullCleaningEvent, error)
	RecordInspection(ctx context.Context, inspection *types.Inspection) (*types.Inspection, error)
	IngestVoyageSessions(ctx context.Context, vesselID uuid.UUID, sessions []*types.VoyageSession) (int, error)
	IngestPositions(ctx context.Context, vesselID uuid.UUID, samples []*types.PositionSample) (int, error)
}

type vesselService struct {
	db             *gorm.DB
	log            *logger.Logger
	vesselRepo     repos.VesselRepo
	voyageRepo     repos.VoyageSessionRepo
	positionRepo   repos.PositionSampleRepo
	inspectionRepo repos.InspectionRepo
	cleaningRepo   repos.HullCleaningRepo
}

func NewVesselService(
	db *gorm.DB,
	log *logger.Logger,
	vesselRepo repos.VesselRepo,
	voyageRepo repos.VoyageSessionRepo,
	positionRepo repos.PositionSampleRepo,
	inspectionRepo repos.InspectionRepo,
	cleaningRepo repos.HullCleaningRepo,
) VesselService {
	serviceLog := log.With("service", "VesselService")
	return &vesselService{
		db:             db,
		log:            serviceLog,
		vesselRepo:     vesselRepo,
		voyageRepo:     voyageRepo,
		positionRepo:   positionRepo,
		inspectionRepo: inspectionRepo,
		cleaningRepo:   cleaningRepo,
	}
}

func (vs *vesselService) Create(ctx context.Context, vessel *types.Vessel) (*types.Vessel, error) {
	if vessel.Name == "" {
		return nil, fmt.Errorf("vessel name is required")
	}
	if vessel.VesselClass == "" {
		return nil, fmt.Errorf("vessel class is required")
	}
	created, err := vs.vesselRepo.Create(ctx, nil, vessel)
	if err != nil {
		return nil, fmt.Errorf("failed to create vessel: %w", err)
	}
	vs.log.Info("Vessel created", "vessel_id", created.ID, "name", created.Name)
	return created, nil
}

func (vs *vesselService) GetByID(ctx context.Context, vesselID uuid.UUID) (*types.Vessel, error) {
	return vs.vesselRepo.GetByID(ctx, nil, vesselID)
}

func (vs *vesselService) List(ctx context.Context) ([]*types.Vessel, error) {
	return vs.vesselRepo.List(ctx, nil)
}

func (vs *vesselService) RecordCleaning(ctx context.Context, event *types.HullCleaningEvent) (*types.HullCleaningEvent, error) {
	if _, err := vs.vesselRepo.GetByID(ctx, nil, event.VesselID); err != nil {
		return nil, fmt.Errorf("vessel lookup failed: %w", err)
	}
	err := vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := vs.cleaningRepo.Create(ctx, tx, event); err != nil {
			return err
		}
		return vs.vesselRepo.UpdateLastCleaningDate(ctx, tx, event.VesselID, event.CleanedAt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record cleaning: %w", err)
	}
	vs.log.Info("Hull cleaning recorded", "vessel_id", event.VesselID, "cleaned_at", event.CleanedAt)
	return event, nil
}

func (vs *vesselService) RecordInspection(ctx context.Context, inspection *types.Inspection) (*types.Inspection, error) {
	if _, err := vs.vesselRepo.GetByID(ctx, nil, inspection.VesselID); err != nil {
		return nil, fmt.Errorf("vessel lookup failed: %w", err)
	}
	created, err := vs.inspectionRepo.Create(ctx, nil, inspection)
	if err != nil {
		return nil, fmt.Errorf("failed to record inspection: %w", err)
	}
	vs.log.Info("Inspection recorded", "vessel_id", created.VesselID, "inspection_date", created.InspectionDate)
	return created, nil
}

func (vs *vesselService) IngestVoyageSessions(ctx context.Context, vesselID uuid.UUID, sessions []*types.VoyageSession) (int, error) {
	if _, err := vs.vesselRepo.GetByID(ctx, nil, vesselID); err != nil {
		return 0, fmt.Errorf("vessel lookup failed: %w", err)
	}
	for _, s := range sessions {
		s.VesselID = vesselID
	}
	created, err := vs.voyageRepo.CreateBatch(ctx, nil, sessions)
	if err != nil {
		return 0, fmt.Errorf("failed to ingest voyage sessions: %w", err)
	}
	vs.log.Info("Voyage sessions ingested", "vessel_id", vesselID, "count", len(created))
	return len(created), nil
}

func (vs *vesselService) IngestPositions(ctx context.Context, vesselID uuid.UUID, samples []*types.PositionSample) (int, error) {
	if _, err := vs.vesselRepo.GetByID(ctx, nil, vesselID); err != nil {
		return 0, fmt.Errorf("vessel lookup failed: %w", err)
	}
	for _, p := range samples {
		p.VesselID = vesselID
	}
	created, err := vs.positionRepo.CreateBatch(ctx, nil, samples)
	if err != nil {
		return 0, fmt.Errorf("failed to ingest positions: %w", err)
	}
	vs.log.Info("Position samples ingested", "vessel_id", vesselID, "count", len(created))
	return len(created), nil
}
