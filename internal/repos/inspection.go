package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

type InspectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, inspection *types.Inspection) (*types.Inspection, error)
	GetLatest(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID) (*types.Inspection, error)
	ListByVessel(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID) ([]*types.Inspection, error)
}

type inspectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInspectionRepo(db *gorm.DB, baseLog *logger.Logger) InspectionRepo {
	repoLog := baseLog.With("repo", "InspectionRepo")
	return &inspectionRepo{db: db, log: repoLog}
}

func (ir *inspectionRepo) Create(ctx context.Context, tx *gorm.DB, inspection *types.Inspection) (*types.Inspection, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if err := transaction.WithContext(ctx).Create(inspection).Error; err != nil {
		return nil, err
	}
	return inspection, nil
}

func (ir *inspectionRepo) GetLatest(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID) (*types.Inspection, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var result types.Inspection
	err := transaction.WithContext(ctx).
		Where("vessel_id = ?", vesselID).
		Order("inspection_date desc").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (ir *inspectionRepo) ListByVessel(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID) ([]*types.Inspection, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.Inspection
	if err := transaction.WithContext(ctx).
		Where("vessel_id = ?", vesselID).
		Order("inspection_date desc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
