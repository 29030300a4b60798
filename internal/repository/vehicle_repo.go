package repository

import (
	"context"

	"gorm.io/gorm"

	"cab-booking/backend/internal/model"
)

// VehicleFilter 车辆列表筛选条件
type VehicleFilter struct {
	Status string
	Type   string
}

// VehicleRepository 车辆数据访问接口
type VehicleRepository interface {
	Create(ctx context.Context, v *model.Vehicle) error
	GetByID(ctx context.Context, id string) (*model.Vehicle, error)
	List(ctx context.Context, filter VehicleFilter) ([]model.Vehicle, error)
	Update(ctx context.Context, v *model.Vehicle) error
	TransitionStatus(ctx context.Context, id, from, to string) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type vehicleRepo struct {
	db *gorm.DB
}

// NewVehicleRepo 创建 VehicleRepository 实例
func NewVehicleRepo(db *gorm.DB) VehicleRepository {
	return &vehicleRepo{db: db}
}

func (r *vehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vehicleRepo) GetByID(ctx context.Context, id string) (*model.Vehicle, error) {
	var v model.Vehicle
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vehicleRepo) List(ctx context.Context, filter VehicleFilter) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	db := r.db.WithContext(ctx)
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	err := db.Order("type ASC, capacity ASC").Find(&vehicles).Error
	return vehicles, err
}

func (r *vehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	return r.db.WithContext(ctx).Save(v).Error
}

// TransitionStatus 仅当车辆当前处于 from 状态时改为 to，维修中的车辆不会被派车流程改写
func (r *vehicleRepo) TransitionStatus(ctx context.Context, id, from, to string) error {
	return r.db.WithContext(ctx).
		Model(&model.Vehicle{}).
		Where("vehicle_id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *vehicleRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Vehicle{}).
		Where("vehicle_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
