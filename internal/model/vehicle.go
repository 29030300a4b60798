package model

const (
	VehicleStatusAvailable   = "AVAILABLE"
	VehicleStatusInUse       = "IN_USE"
	VehicleStatusMaintenance = "MAINTENANCE"
)

// ValidVehicleStatus 判断车辆状态是否合法
func ValidVehicleStatus(s string) bool {
	return s == VehicleStatusAvailable || s == VehicleStatusInUse || s == VehicleStatusMaintenance
}

// Vehicle 车辆表 — 对应 vehicles
type Vehicle struct {
	VehicleID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Model        string `gorm:"type:varchar(100);not null"                     json:"model"`
	LicensePlate string `gorm:"type:varchar(20);not null"                      json:"licensePlate"`
	Type         string `gorm:"type:varchar(10);not null"                      json:"type"`
	Capacity     int    `gorm:"not null"                                       json:"capacity"`
	Status       string `gorm:"type:varchar(20);not null;default:'AVAILABLE'"  json:"status"`
	SoftDeleteModel
}

// TableName 指定表名
func (Vehicle) TableName() string { return "vehicles" }
