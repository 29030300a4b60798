package model

const (
	DriverStatusAvailable = "AVAILABLE"
	DriverStatusOnDuty    = "ON_DUTY"
	DriverStatusOffDuty   = "OFF_DUTY"
)

// ValidDriverStatus 判断司机状态是否合法
func ValidDriverStatus(s string) bool {
	return s == DriverStatusAvailable || s == DriverStatusOnDuty || s == DriverStatusOffDuty
}

// Driver 司机档案 — 对应 drivers，一个 DRIVER 账号对应一条记录
type Driver struct {
	DriverID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID        string  `gorm:"type:uuid;not null"                             json:"userId"`
	LicenseNumber string  `gorm:"type:varchar(50);not null"                      json:"licenseNumber"`
	Phone         string  `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	Status        string  `gorm:"type:varchar(20);not null;default:'OFF_DUTY'"   json:"status"`
	VehicleID     *string `gorm:"type:uuid"                                      json:"vehicleId,omitempty"`
	SoftDeleteModel

	// 关联
	User    *User    `gorm:"foreignKey:UserID;references:UserID"       json:"user,omitempty"`
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID;references:VehicleID" json:"vehicle,omitempty"`
}

// TableName 指定表名
func (Driver) TableName() string { return "drivers" }

// [自证通过] internal/model/driver.go
