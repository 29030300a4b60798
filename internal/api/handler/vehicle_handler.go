package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cab-booking/backend/internal/dto"
	"cab-booking/backend/internal/service"
	"cab-booking/backend/pkg/response"
)

// VehicleHandler 车辆模块 HTTP 处理器
type VehicleHandler struct {
	vehicleSvc service.VehicleService
}

// NewVehicleHandler 创建 VehicleHandler
func NewVehicleHandler(vehicleSvc service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc}
}

// ListVehicles 车辆列表
// GET /api/v1/vehicles?status=AVAILABLE&type=SEDAN
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	var req dto.VehicleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	vehicles, err := h.vehicleSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleVehicleError(c, err)
		return
	}

	response.OK(c, vehicles)
}

// GetVehicle 车辆详情
// GET /api/v1/vehicles/:id
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	vehicle, err := h.vehicleSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleVehicleError(c, err)
		return
	}

	response.OK(c, vehicle)
}

// CreateVehicle 创建车辆
// POST /api/v1/vehicles
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req dto.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	vehicle, err := h.vehicleSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleVehicleError(c, err)
		return
	}

	response.Created(c, vehicle)
}

// UpdateVehicle 更新车辆
// PUT /api/v1/vehicles/:id
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	var req dto.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	vehicle, err := h.vehicleSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleVehicleError(c, err)
		return
	}

	response.OK(c, vehicle)
}

// DeleteVehicle 删除车辆
// DELETE /api/v1/vehicles/:id
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.vehicleSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleVehicleError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *VehicleHandler) handleVehicleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVehicleNotFound):
		response.NotFound(c, response.CodeNotFound, "车辆不存在")
	case errors.Is(err, service.ErrPlateExists):
		response.Conflict(c, "车牌号已存在")
	default:
		handleCommonError(c, err)
	}
}
