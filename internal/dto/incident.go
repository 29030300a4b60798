package dto

// ── 安全事件 DTO ──

// CreateIncidentRequest 上报安全事件
type CreateIncidentRequest struct {
	BookingID   *string `json:"bookingId"   binding:"omitempty,uuid"`
	Description string  `json:"description" binding:"required,min=5,max=2000"`
}

// IncidentListRequest 事件列表查询参数
type IncidentListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=PENDING RESOLVED"`
}

// IncidentResponse 安全事件响应
type IncidentResponse struct {
	ID          string       `json:"id"`
	BookingID   *string      `json:"bookingId,omitempty"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Reporter    *UserSummary `json:"reporter,omitempty"`
	ResolvedBy  *string      `json:"resolvedBy,omitempty"`
	ResolvedAt  string       `json:"resolvedAt,omitempty"`
	CreatedAt   string       `json:"createdAt"`
}
