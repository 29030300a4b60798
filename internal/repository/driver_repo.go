package repository

import (
	"context"

	"gorm.io/gorm"

	"cab-booking/backend/internal/model"
)

// DriverRepository 司机数据访问接口
type DriverRepository interface {
	Create(ctx context.Context, d *model.Driver) error
	GetByID(ctx context.Context, id string) (*model.Driver, error)
	GetByUserID(ctx context.Context, userID string) (*model.Driver, error)
	List(ctx context.Context, status string) ([]model.Driver, error)
	Update(ctx context.Context, d *model.Driver) error
	UpdateStatus(ctx context.Context, id, status string) error
	TransitionStatus(ctx context.Context, id, from, to string) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type driverRepo struct {
	db *gorm.DB
}

// NewDriverRepo 创建 DriverRepository 实例
func NewDriverRepo(db *gorm.DB) DriverRepository {
	return &driverRepo{db: db}
}

func (r *driverRepo) Create(ctx context.Context, d *model.Driver) error {
	return r.db.WithContext(ctx).Omit("User", "Vehicle").Create(d).Error
}

func (r *driverRepo) GetByID(ctx context.Context, id string) (*model.Driver, error) {
	var d model.Driver
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Vehicle").
		Where("driver_id = ?", id).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *driverRepo) GetByUserID(ctx context.Context, userID string) (*model.Driver, error) {
	var d model.Driver
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *driverRepo) List(ctx context.Context, status string) ([]model.Driver, error) {
	var drivers []model.Driver
	db := r.db.WithContext(ctx).Preload("User").Preload("Vehicle")
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("created_at DESC").Find(&drivers).Error
	return drivers, err
}

func (r *driverRepo) Update(ctx context.Context, d *model.Driver) error {
	return r.db.WithContext(ctx).Omit("User", "Vehicle").Save(d).Error
}

func (r *driverRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Driver{}).
		Where("driver_id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

// TransitionStatus 仅当司机当前处于 from 状态时改为 to；
// 状态已被他人改动（如管理员手动下线）时不覆盖，也不报错
func (r *driverRepo) TransitionStatus(ctx context.Context, id, from, to string) error {
	return r.db.WithContext(ctx).
		Model(&model.Driver{}).
		Where("driver_id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *driverRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Driver{}).
		Where("driver_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
