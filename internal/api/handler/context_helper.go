package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cab-booking/backend/internal/policy"
	"cab-booking/backend/internal/service"
	"cab-booking/backend/pkg/jwt"
	"cab-booking/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	return s, true
}

// MustGetCaller 组合 user_id 与 role，供 service 层做归属与授权判断
func MustGetCaller(c *gin.Context) (policy.Caller, bool) {
	id, ok := MustGetUserID(c)
	if !ok {
		return policy.Caller{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return policy.Caller{}, false
	}
	return policy.Caller{ID: id, Role: role}, true
}

// MustGetClaims 提取 JWT 中间件注入的完整声明（登出时需要 jti 与过期时间）
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("claims")
	if !exists {
		response.Unauthorized(c, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, "未认证")
		return nil, false
	}
	return claims, true
}

// bindFailed 请求体绑定失败：超出 BodyLimit 返回 413，其余按参数校验失败处理
func bindFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeTooLarge, "请求体过大")
		return
	}
	response.ValidationFailed(c, err)
}

// handleCommonError 各模块共享的兜底映射：授权、数据不可用、未知错误
func handleCommonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, "无权执行此操作")
	case errors.Is(err, service.ErrUnavailable):
		response.Unavailable(c, response.CodeUnavailable, err)
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// MustGetPathID 提取路径中的 UUID 主键。
// 格式非法的 id 不可能对应任何记录，按资源不存在处理，不再下发到数据库。
func MustGetPathID(c *gin.Context) (string, bool) {
	u, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, response.CodeNotFound, "资源不存在")
		return "", false
	}
	return u.String(), true
}
