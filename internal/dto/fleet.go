package dto

// ── 车辆 ──

// CreateVehicleRequest 创建车辆请求
type CreateVehicleRequest struct {
	Model        string `json:"model"        binding:"required,min=1,max=100"`
	LicensePlate string `json:"licensePlate" binding:"required,min=1,max=20"`
	Type         string `json:"type"         binding:"required,oneof=SEDAN SUV VAN"`
	Capacity     int    `json:"capacity"     binding:"required,min=1,max=20"`
}

// UpdateVehicleRequest 更新车辆请求
type UpdateVehicleRequest struct {
	Model        *string `json:"model"        binding:"omitempty,min=1,max=100"`
	LicensePlate *string `json:"licensePlate" binding:"omitempty,min=1,max=20"`
	Type         *string `json:"type"         binding:"omitempty,oneof=SEDAN SUV VAN"`
	Capacity     *int    `json:"capacity"     binding:"omitempty,min=1,max=20"`
	Status       *string `json:"status"       binding:"omitempty,oneof=AVAILABLE IN_USE MAINTENANCE"`
}

// VehicleListRequest 车辆列表查询参数
type VehicleListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=AVAILABLE IN_USE MAINTENANCE"`
	Type   string `form:"type"   binding:"omitempty,oneof=SEDAN SUV VAN"`
}

// VehicleResponse 车辆信息响应
type VehicleResponse struct {
	ID           string `json:"id"`
	Model        string `json:"model"`
	LicensePlate string `json:"licensePlate"`
	Type         string `json:"type"`
	Capacity     int    `json:"capacity"`
	Status       string `json:"status"`
}

// ── 司机 ──

// CreateDriverRequest 创建司机档案请求，userId 须为 DRIVER 角色账号
type CreateDriverRequest struct {
	UserID        string  `json:"userId"        binding:"required,uuid"`
	LicenseNumber string  `json:"licenseNumber" binding:"required,min=1,max=50"`
	Phone         string  `json:"phone"         binding:"omitempty,max=20"`
	VehicleID     *string `json:"vehicleId"     binding:"omitempty,uuid"`
}

// UpdateDriverRequest 更新司机档案请求
type UpdateDriverRequest struct {
	LicenseNumber *string `json:"licenseNumber" binding:"omitempty,min=1,max=50"`
	Phone         *string `json:"phone"         binding:"omitempty,max=20"`
	Status        *string `json:"status"        binding:"omitempty,oneof=AVAILABLE ON_DUTY OFF_DUTY"`
	VehicleID     *string `json:"vehicleId"     binding:"omitempty,uuid"`
}

// UpdateDriverStatusRequest 司机自助更新状态
type UpdateDriverStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=AVAILABLE ON_DUTY OFF_DUTY"`
}

// DriverListRequest 司机列表查询参数
type DriverListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=AVAILABLE ON_DUTY OFF_DUTY"`
}

// DriverResponse 司机信息响应
type DriverResponse struct {
	ID            string           `json:"id"`
	UserID        string           `json:"userId"`
	Name          string           `json:"name,omitempty"`
	Email         string           `json:"email,omitempty"`
	LicenseNumber string           `json:"licenseNumber"`
	Phone         string           `json:"phone,omitempty"`
	Status        string           `json:"status"`
	Vehicle       *VehicleResponse `json:"vehicle,omitempty"`
}
