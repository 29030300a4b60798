package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role       string `form:"role"       binding:"omitempty,oneof=ADMIN MANAGER EMPLOYEE DRIVER"`
	Department string `form:"department" binding:"omitempty,max=100"`
	Search     string `form:"search"     binding:"omitempty,max=50"`
}

// CreateUserRequest 管理员创建用户请求
type CreateUserRequest struct {
	Email      string  `json:"email"      binding:"required,email,max=255"`
	Password   string  `json:"password"   binding:"required,min=8,max=72"`
	FirstName  string  `json:"firstName"  binding:"required,min=1,max=50"`
	LastName   string  `json:"lastName"   binding:"required,min=1,max=50"`
	Role       string  `json:"role"       binding:"required,oneof=ADMIN MANAGER EMPLOYEE DRIVER"`
	Gender     string  `json:"gender"     binding:"required,oneof=MALE FEMALE OTHER"`
	Department string  `json:"department" binding:"required,min=1,max=100"`
	ManagerID  *string `json:"managerId"  binding:"omitempty,uuid"`
}

// UpdateUserRequest 更新用户信息请求
type UpdateUserRequest struct {
	FirstName  *string `json:"firstName"  binding:"omitempty,min=1,max=50"`
	LastName   *string `json:"lastName"   binding:"omitempty,min=1,max=50"`
	Email      *string `json:"email"      binding:"omitempty,email,max=255"`
	Role       *string `json:"role"       binding:"omitempty,oneof=ADMIN MANAGER EMPLOYEE DRIVER"`
	Gender     *string `json:"gender"     binding:"omitempty,oneof=MALE FEMALE OTHER"`
	Department *string `json:"department" binding:"omitempty,min=1,max=100"`
	ManagerID  *string `json:"managerId"  binding:"omitempty,uuid"`
}

// [自证通过] internal/dto/user.go
