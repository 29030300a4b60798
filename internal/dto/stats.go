package dto

// ── 管理看板 DTO ──

// DashboardResponse GET /admin/stats
type DashboardResponse struct {
	Users     UserStats     `json:"users"`
	Drivers   DriverStats   `json:"drivers"`
	Bookings  BookingStats  `json:"bookings"`
	Incidents IncidentStats `json:"incidents"`
	Revenue   RevenueStats  `json:"revenue"`
	Trends    TrendStats    `json:"trends"`
}

// UserStats 用户统计
type UserStats struct {
	Total       int64 `json:"total"`
	NewThisWeek int64 `json:"newThisWeek"`
	ActiveToday int64 `json:"activeToday"`
}

// DriverStats 司机统计
type DriverStats struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	OnDuty    int64 `json:"onDuty"`
}

// BookingStats 预约统计，ByStatus 包含全部状态键
type BookingStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
}

// IncidentStats 安全事件统计
type IncidentStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Resolved int64 `json:"resolved"`
}

// RevenueStats 已完成订单收入
type RevenueStats struct {
	AllTime   int64 `json:"allTime"`
	ThisMonth int64 `json:"thisMonth"`
	LastMonth int64 `json:"lastMonth"`
}

// TrendPoint 趋势数据点
type TrendPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// TrendStats 近七日趋势，按日期升序，缺失日期补零
type TrendStats struct {
	Bookings  []TrendPoint `json:"bookings"`
	Revenue   []TrendPoint `json:"revenue"`
	Incidents []TrendPoint `json:"incidents"`
}
