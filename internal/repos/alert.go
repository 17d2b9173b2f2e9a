package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vesselwatch/biofouling-backend/internal/logger"
	"github.com/vesselwatch/biofouling-backend/internal/types"
)

// AlertFilter narrows List. Zero values mean no filtering on that field.
type AlertFilter struct {
	VesselID uuid.UUID
	Severity types.AlertSeverity
	Status   types.AlertStatus
	Limit    int
	Offset   int
}

type AlertRepo interface {
	Create(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error)
	Update(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error)
	GetByID(ctx context.Context, tx *gorm.DB, alertID uuid.UUID) (*types.Alert, error)
	GetOpenByVessel(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID) ([]*types.Alert, error)
	List(ctx context.Context, tx *gorm.DB, filter AlertFilter) ([]*types.Alert, int64, error)
}

type alertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlertRepo(db *gorm.DB, baseLog *logger.Logger) AlertRepo {
	repoLog := baseLog.With("repo", "AlertRepo")
	return &alertRepo{db: db, log: repoLog}
}

func (ar *alertRepo) Create(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

func (ar *alertRepo) Update(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Save(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

func (ar *alertRepo) GetByID(ctx context.Context, tx *gorm.DB, alertID uuid.UUID) (*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var result types.Alert
	if err := transaction.WithContext(ctx).
		Where("id = ?", alertID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *alertRepo) GetOpenByVessel(ctx context.Context, tx *gorm.DB, vesselID uuid.UUID) ([]*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Alert
	if err := transaction.WithContext(ctx).
		Where("vessel_id = ? AND status IN ?", vesselID, []types.AlertStatus{types.AlertStatusActive, types.AlertStatusAcknowledged}).
		Order("created_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *alertRepo) List(ctx context.Context, tx *gorm.DB, filter AlertFilter) ([]*types.Alert, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	q := transaction.WithContext(ctx).Model(&types.Alert{})
	if filter.VesselID != uuid.Nil {
		q = q.Where("vessel_id = ?", filter.VesselID)
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("created_at desc")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	var results []*types.Alert
	if err := q.Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
