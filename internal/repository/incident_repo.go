package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"cab-booking/backend/internal/model"
	pkgerrors "cab-booking/backend/pkg/errors"
)

// IncidentRepository 安全事件数据访问接口
type IncidentRepository interface {
	Create(ctx context.Context, inc *model.Incident) error
	GetByID(ctx context.Context, id string) (*model.Incident, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.Incident, int64, error)
	// Resolve 条件写入：仅 PENDING 事件可处理，否则返回 ErrOptimisticLock
	Resolve(ctx context.Context, id, resolvedBy string, at time.Time) error
}

type incidentRepo struct {
	db *gorm.DB
}

// NewIncidentRepo 创建 IncidentRepository 实例
func NewIncidentRepo(db *gorm.DB) IncidentRepository {
	return &incidentRepo{db: db}
}

func (r *incidentRepo) Create(ctx context.Context, inc *model.Incident) error {
	return r.db.WithContext(ctx).Omit("Reporter").Create(inc).Error
}

func (r *incidentRepo) GetByID(ctx context.Context, id string) (*model.Incident, error) {
	var inc model.Incident
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Where("incident_id = ?", id).
		First(&inc).Error
	if err != nil {
		return nil, err
	}
	return &inc, nil
}

func (r *incidentRepo) List(ctx context.Context, status string, offset, limit int) ([]model.Incident, int64, error) {
	var incidents []model.Incident
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Incident{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Reporter").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&incidents).Error; err != nil {
		return nil, 0, err
	}

	return incidents, total, nil
}

func (r *incidentRepo) Resolve(ctx context.Context, id, resolvedBy string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Incident{}).
		Where("incident_id = ? AND status = ?", id, model.IncidentStatusPending).
		Updates(map[string]interface{}{
			"status":      model.IncidentStatusResolved,
			"resolved_by": resolvedBy,
			"resolved_at": at,
			"updated_at":  gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}
