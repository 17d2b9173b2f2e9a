package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

type HullCleaningRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.HullCleaningEvent) (*types.HullCleaningEvent, error)
	ListByVessel(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID) ([]*types.HullCleaningEvent, error)
}

type hullCleaningRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHullCleaningRepo(db *gorm.DB, baseLog *logger.Logger) HullCleaningRepo {
	repoLog := baseLog.With("repo", "HullCleaningRepo")
	return &hullCleaningRepo{db: db, log: repoLog}
}

func (hr *hullCleaningRepo) Create(ctx context.Context, tx *gorm.DB, event *types.HullCleaningEvent) (*types.HullCleaningEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	if err := transaction.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (hr *hullCleaningRepo) ListByVessel(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID) ([]*types.HullCleaningEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	var results []*types.HullCleaningEvent
	if err := transaction.WithContext(ctx).
		Where("vessel_id = ?", vesselID).
		Order("cleaned_at desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
