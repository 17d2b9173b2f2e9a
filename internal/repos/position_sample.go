package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

type PositionSampleRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, samples []*types.PositionSample) ([]*types.PositionSample, error)
	ListForWindow(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID, since time.Time, limit int) ([]*types.PositionSample, error)
}

type positionSampleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPositionSampleRepo(db *gorm.DB, baseLog *logger.Logger) PositionSampleRepo {
	repoLog := baseLog.With("repo", "PositionSampleRepo")
	return &positionSampleRepo{db: db, log: repoLog}
}

func (pr *positionSampleRepo) CreateBatch(ctx context.Context, tx *gorm.DB, samples []*types.PositionSample) ([]*types.PositionSample, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(samples) == 0 {
		return []*types.PositionSample{}, nil
	}
	if err := transaction.WithContext(ctx).CreateInBatches(&samples, 500).Error; err != nil {
		return nil, err
	}
	return samples, nil
}

func (pr *positionSampleRepo) ListForWindow(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID, since time.Time, limit int) ([]*types.PositionSample, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.PositionSample
	q := transaction.WithContext(ctx).
		Where("vessel_id = ? AND timestamp >= ?", vesselID, since).
		Order("timestamp asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
