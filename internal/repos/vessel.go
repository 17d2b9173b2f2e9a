package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

type VesselRepo interface {
	Create(ctx context.Context, tx *gorm.DB, vessel *types.Vessel) (*types.Vessel, error)
	GetByID(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID) (*types.Vessel, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Vessel, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Vessel, error)
	UpdateLastCleaningDate(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID, cleanedAt time.Time) error
}

type vesselRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVesselRepo(db *gorm.DB, baseLog *logger.Logger) VesselRepo {
	repoLog := baseLog.With("repo", "VesselRepo")
	return &vesselRepo{db: db, log: repoLog}
}

func (vr *vesselRepo) Create(ctx context.Context, tx *gorm.DB, vessel *types.Vessel) (*types.Vessel, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	if err := transaction.WithContext(ctx).Create(vessel).Error; err != nil {
		return nil, err
	}
	return vessel, nil
}

func (vr *vesselRepo) GetByID(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID) (*types.Vessel, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var result types.Vessel
	if err := transaction.WithContext(ctx).
		Where("id = ?", vesselID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (vr *vesselRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Vessel, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var result types.Vessel
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (vr *vesselRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Vessel, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var results []*types.Vessel
	if err := transaction.WithContext(ctx).
		Order("name asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (vr *vesselRepo) UpdateLastCleaningDate(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID, cleanedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Vessel{}).
		Where("id = ?", vesselID).
		Update("last_cleaning_date", cleanedAt).Error
}
