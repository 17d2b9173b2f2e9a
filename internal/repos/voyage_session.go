package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

type VoyageSessionRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, sessions []*types.VoyageSession) ([]*types.VoyageSession, error)
	ListForWindow(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID, since time.Time, limit int) ([]*types.VoyageSession, error)
}

type voyageSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoyageSessionRepo(db *gorm.DB, baseLog *logger.Logger) VoyageSessionRepo {
	repoLog := baseLog.With("repo", "VoyageSessionRepo")
	return &voyageSessionRepo{db: db, log: repoLog}
}

func (vr *voyageSessionRepo) CreateBatch(ctx context.Context, tx *gorm.DB, sessions []*types.VoyageSession) ([]*types.VoyageSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	if len(sessions) == 0 {
		return []*types.VoyageSession{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (vr *voyageSessionRepo) ListForWindow(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID, since time.Time, limit int) ([]*types.VoyageSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}
	var results []*types.VoyageSession
	q := transaction.WithContext(ctx).
		Where("vessel_id = ? AND start_date >= ?", vesselID, since).
		Order("start_date asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
