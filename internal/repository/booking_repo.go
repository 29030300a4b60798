package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"cab-booking/backend/internal/model"
	pkgerrors "cab-booking/backend/pkg/errors"
)

// BookingFilter 预约列表筛选条件
type BookingFilter struct {
	Status string
	UserID string
	From   *time.Time // scheduled_time 下界（含）
	To     *time.Time // scheduled_time 上界（不含）
}

// BookingCounts 单个用户的预约计数
type BookingCounts struct {
	Pending  int64 `gorm:"column:pending"  json:"pending"`
	Upcoming int64 `gorm:"column:upcoming" json:"upcoming"`
	Total    int64 `gorm:"column:total"    json:"total"`
}

// BookingRepository 预约数据访问接口
type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filter BookingFilter, offset, limit int) ([]model.Booking, int64, error)
	ListAll(ctx context.Context, filter BookingFilter) ([]model.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)
	// UpdateDetails 仅当预约仍处于 PENDING 时写入，否则返回 ErrOptimisticLock
	UpdateDetails(ctx context.Context, b *model.Booking) error
	// UpdateStatus 条件写入：仅当当前状态等于 from 时更新为 to，否则返回 ErrOptimisticLock
	UpdateStatus(ctx context.Context, id, from, to string) error
	// Assign 条件写入：仅当预约处于 APPROVED 时写入司机与车辆
	Assign(ctx context.Context, id, driverID, vehicleID string) error
	Delete(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string, now time.Time) (*BookingCounts, error)
}

type bookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo 创建 BookingRepository 实例
func NewBookingRepo(db *gorm.DB) BookingRepository {
	return &bookingRepo{db: db}
}

// withSummaries 预加载上下车地点、乘客、司机与车辆
func withSummaries(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Pickup").
		Preload("Drop").
		Preload("Driver").
		Preload("Vehicle")
}

func applyBookingFilter(db *gorm.DB, filter BookingFilter) *gorm.DB {
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.From != nil {
		db = db.Where("scheduled_time >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("scheduled_time < ?", *filter.To)
	}
	return db
}

func (r *bookingRepo) Create(ctx context.Context, b *model.Booking) error {
	return r.db.WithContext(ctx).Omit("User", "Pickup", "Drop", "Driver", "Vehicle").Create(b).Error
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	err := withSummaries(r.db.WithContext(ctx)).
		Where("booking_id = ?", id).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepo) List(ctx context.Context, filter BookingFilter, offset, limit int) ([]model.Booking, int64, error) {
	var bookings []model.Booking
	var total int64

	db := applyBookingFilter(r.db.WithContext(ctx).Model(&model.Booking{}), filter)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := withSummaries(db).
		Offset(offset).Limit(limit).
		Order("scheduled_time DESC").
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *bookingRepo) ListAll(ctx context.Context, filter BookingFilter) ([]model.Booking, error) {
	var bookings []model.Booking
	err := withSummaries(applyBookingFilter(r.db.WithContext(ctx), filter)).
		Order("scheduled_time ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	var bookings []model.Booking
	err := withSummaries(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) UpdateDetails(ctx context.Context, b *model.Booking) error {
	result := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("booking_id = ? AND status = ?", b.BookingID, model.BookingStatusPending).
		Updates(map[string]interface{}{
			"pickup_id":       b.PickupID,
			"drop_id":         b.DropID,
			"scheduled_time":  b.ScheduledTime,
			"vehicle_type":    b.VehicleType,
			"passenger_count": b.PassengerCount,
			"notes":           b.Notes,
			"fare":            b.Fare,
			"updated_at":      gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("booking_id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *bookingRepo) Assign(ctx context.Context, id, driverID, vehicleID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("booking_id = ? AND status = ?", id, model.BookingStatusApproved).
		Updates(map[string]interface{}{
			"driver_id":  driverID,
			"vehicle_id": vehicleID,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *bookingRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("booking_id = ?", id).
		Delete(&model.Booking{}).Error
}

func (r *bookingRepo) CountByUser(ctx context.Context, userID string, now time.Time) (*BookingCounts, error) {
	var counts BookingCounts
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE status = ?)                          AS pending,
			COUNT(*) FILTER (WHERE status = ? AND scheduled_time >= ?) AS upcoming,
			COUNT(*)                                                    AS total
		FROM bookings
		WHERE user_id = ?`,
		model.BookingStatusPending, model.BookingStatusApproved, now, userID,
	).Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

// [自证通过] internal/repository/booking_repo.go
