package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

type BiofoulingIndexRepo interface {
	Create(ctx context.Context, tx *gorm.DB, index *types.BiofoulingIndex) (*types.BiofoulingIndex, error)
	GetLatest(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID) (*types.BiofoulingIndex, error)
	// GetPrevious returns the newest evaluation strictly older than the
	// given one, or nil when it is the first.
	GetPrevious(ctx context.Context, tx *gorm.DB, current *types.BiofoulingIndex) (*types.BiofoulingIndex, error)
	// ListRecent returns up to limit evaluations, oldest first, ready for
	// trend fitting.
	ListRecent(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID, limit int) ([]*types.BiofoulingIndex, error)
	// ListSince returns evaluations calculated at or after since, oldest
	// first.
	ListSince(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID, since time.Time) ([]*types.BiofoulingIndex, error)
}

type biofoulingIndexRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBiofoulingIndexRepo(db *gorm.DB, baseLog *logger.Logger) BiofoulingIndexRepo {
	repoLog := baseLog.With("repo", "BiofoulingIndexRepo")
	return &biofoulingIndexRepo{db: db, log: repoLog}
}

func (br *biofoulingIndexRepo) Create(ctx context.Context, tx *gorm.DB, index *types.BiofoulingIndex) (*types.BiofoulingIndex, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	if err := transaction.WithContext(ctx).Create(index).Error; err != nil {
		return nil, err
	}
	return index, nil
}

func (br *biofoulingIndexRepo) GetLatest(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID) (*types.BiofoulingIndex, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var result types.BiofoulingIndex
	err := transaction.WithContext(ctx).
		Where("vessel_id = ?", vesselID).
		Order("calculated_at desc").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (br *biofoulingIndexRepo) GetPrevious(ctx context.Context, tx *gorm.DB, current *types.BiofoulingIndex) (*types.BiofoulingIndex, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var result types.BiofoulingIndex
	err := transaction.WithContext(ctx).
		Where("vessel_id = ? AND calculated_at < ?", current.VesselID, current.CalculatedAt).
		Order("calculated_at desc").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (br *biofoulingIndexRepo) ListRecent(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID, limit int) ([]*types.BiofoulingIndex, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var newest []*types.BiofoulingIndex
	q := transaction.WithContext(ctx).
		Where("vessel_id = ?", vesselID).
		Order("calculated_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&newest).Error; err != nil {
		return nil, err
	}
	// reverse into chronological order
	for i, j := 0, len(newest)-1; i < j; i, j = i+1, j-1 {
		newest[i], newest[j] = newest[j], newest[i]
	}
	return newest, nil
}

func (br *biofoulingIndexRepo) ListSince(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID, since time.Time) ([]*types.BiofoulingIndex, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	var results []*types.BiofoulingIndex
	if err := transaction.WithContext(ctx).
		Where("vessel_id = ? AND calculated_at >= ?", vesselID, since).
		Order("calculated_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
