package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cab-booking/backend/internal/dto"
	"cab-booking/backend/internal/service"
	"cab-booking/backend/pkg/response"
)

// DriverHandler 司机模块 HTTP 处理器
type DriverHandler struct {
	driverSvc service.DriverService
}

// NewDriverHandler 创建 DriverHandler
func NewDriverHandler(driverSvc service.DriverService) *DriverHandler {
	return &DriverHandler{driverSvc: driverSvc}
}

// ListDrivers 司机列表
// GET /api/v1/drivers?status=AVAILABLE
func (h *DriverHandler) ListDrivers(c *gin.Context) {
	var req dto.DriverListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	drivers, err := h.driverSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleDriverError(c, err)
		return
	}

	response.OK(c, drivers)
}

// GetDriver 司机详情
// GET /api/v1/drivers/:id
func (h *DriverHandler) GetDriver(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	driver, err := h.driverSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleDriverError(c, err)
		return
	}

	response.OK(c, driver)
}

// CreateDriver 为 DRIVER 账号建立司机档案
// POST /api/v1/drivers
func (h *DriverHandler) CreateDriver(c *gin.Context) {
	var req dto.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	driver, err := h.driverSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleDriverError(c, err)
		return
	}

	response.Created(c, driver)
}

// UpdateDriver 更新司机档案
// PUT /api/v1/drivers/:id
func (h *DriverHandler) UpdateDriver(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	var req dto.UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	driver, err := h.driverSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleDriverError(c, err)
		return
	}

	response.OK(c, driver)
}

// DeleteDriver 删除司机档案
// DELETE /api/v1/drivers/:id
func (h *DriverHandler) DeleteDriver(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.driverSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleDriverError(c, err)
		return
	}

	response.OK(c, nil)
}

// UpdateMyStatus 司机本人切换在岗状态
// PATCH /api/v1/drivers/me/status
func (h *DriverHandler) UpdateMyStatus(c *gin.Context) {
	var req dto.UpdateDriverStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	driver, err := h.driverSvc.UpdateOwnStatus(c.Request.Context(), userID, req.Status)
	if err != nil {
		h.handleDriverError(c, err)
		return
	}

	response.OK(c, driver)
}

func (h *DriverHandler) handleDriverError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDriverNotFound):
		response.NotFound(c, response.CodeNotFound, "司机不存在")
	case errors.Is(err, service.ErrVehicleNotFound):
		response.NotFound(c, response.CodeNotFound, "车辆不存在")
	case errors.Is(err, service.ErrDriverUserInvalid), errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, response.CodeValidation, err.Error())
	case errors.Is(err, service.ErrDriverExists), errors.Is(err, service.ErrLicenseExists):
		response.Conflict(c, err.Error())
	default:
		handleCommonError(c, err)
	}
}
