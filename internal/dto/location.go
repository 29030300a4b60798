package dto

// ── 地点模块 DTO ──

// CreateLocationRequest 创建地点请求
type CreateLocationRequest struct {
	Name               string   `json:"name"               binding:"required,min=2,max=100"`
	Address            string   `json:"address"            binding:"omitempty,max=200"`
	Latitude           *float64 `json:"latitude"           binding:"required,min=-90,max=90"`
	Longitude          *float64 `json:"longitude"          binding:"required,min=-180,max=180"`
	DistanceFromOffice *float64 `json:"distanceFromOffice" binding:"required,min=0"`
}

// UpdateLocationRequest 更新地点请求
type UpdateLocationRequest struct {
	Name               *string  `json:"name"               binding:"omitempty,min=2,max=100"`
	Address            *string  `json:"address"            binding:"omitempty,max=200"`
	Latitude           *float64 `json:"latitude"           binding:"omitempty,min=-90,max=90"`
	Longitude          *float64 `json:"longitude"          binding:"omitempty,min=-180,max=180"`
	DistanceFromOffice *float64 `json:"distanceFromOffice" binding:"omitempty,min=0"`
	IsActive           *bool    `json:"isActive"`
}

// LocationListRequest 地点列表查询参数
type LocationListRequest struct {
	IncludeInactive bool `form:"includeInactive"`
}

// LocationResponse 地点信息响应
type LocationResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Address            string  `json:"address,omitempty"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	DistanceFromOffice float64 `json:"distanceFromOffice"`
	IsActive           bool    `json:"isActive"`
}
