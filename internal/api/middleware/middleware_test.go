package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cab-booking/backend/config"
	"cab-booking/backend/internal/model"
	"cab-booking/backend/internal/policy"
	"cab-booking/backend/pkg/jwt"
	"cab-booking/backend/pkg/redis"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "middleware-test-secret-at-least-32-bytes",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := redis.NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	if err != nil {
		t.Fatalf("连接 miniredis 失败: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── JWTAuth ──

func TestJWTAuth_InjectsIdentity(t *testing.T) {
	mgr := newTestJWT()
	token, _ := mgr.GenerateAccessToken("user-1", model.RoleManager, "m@example.com")

	r := gin.New()
	r.GET("/p", JWTAuth(mgr, nil), func(c *gin.Context) {
		if c.GetString("user_id") != "user-1" || c.GetString("role") != model.RoleManager {
			t.Errorf("上下文身份不正确: %s/%s", c.GetString("user_id"), c.GetString("role"))
		}
		if _, ok := c.Get("claims"); !ok {
			t.Error("应注入 claims")
		}
		c.Status(http.StatusOK)
	})

	if w := doRequest(r, http.MethodGet, "/p", token); w.Code != http.StatusOK {
		t.Errorf("期望 200，实际 %d", w.Code)
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	mgr := newTestJWT()
	refresh, _ := mgr.GenerateRefreshToken("user-1", model.RoleEmployee, "e@example.com")

	r := gin.New()
	r.GET("/p", JWTAuth(mgr, nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name   string
		header string
	}{
		{"缺少认证头", ""},
		{"格式错误", "Token abc"},
		{"伪造 Token", "Bearer not-a-jwt"},
		{"Refresh Token", "Bearer " + refresh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("期望 401，实际 %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), `"UNAUTHORIZED"`) {
				t.Errorf("错误码应为 UNAUTHORIZED: %s", w.Body.String())
			}
		})
	}
}

func TestJWTAuth_BlacklistedToken(t *testing.T) {
	mgr := newTestJWT()
	rdb := newTestRedis(t)
	token, _ := mgr.GenerateAccessToken("user-1", model.RoleEmployee, "e@example.com")
	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.GET("/p", JWTAuth(mgr, rdb), func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := doRequest(r, http.MethodGet, "/p", token); w.Code != http.StatusOK {
		t.Fatalf("注销前应放行，实际 %d", w.Code)
	}
	if err := rdb.BlacklistToken(context.Background(), claims.ID, time.Minute); err != nil {
		t.Fatal(err)
	}
	if w := doRequest(r, http.MethodGet, "/p", token); w.Code != http.StatusUnauthorized {
		t.Errorf("注销后应返回 401，实际 %d", w.Code)
	}
}

// ── Permission ──

func TestPermission(t *testing.T) {
	handler := func(role string) *gin.Engine {
		r := gin.New()
		r.GET("/admin", func(c *gin.Context) {
			if role != "" {
				c.Set("role", role)
			}
			c.Next()
		}, Permission(policy.StatsDashboard), func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	if w := doRequest(handler(model.RoleAdmin), http.MethodGet, "/admin", ""); w.Code != http.StatusOK {
		t.Errorf("ADMIN 期望 200，实际 %d", w.Code)
	}
	if w := doRequest(handler(model.RoleEmployee), http.MethodGet, "/admin", ""); w.Code != http.StatusForbidden {
		t.Errorf("EMPLOYEE 期望 403，实际 %d", w.Code)
	}
	if w := doRequest(handler(""), http.MethodGet, "/admin", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("未认证期望 401，实际 %d", w.Code)
	}
}

// ── RateLimit ──

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	rdb := newTestRedis(t)
	r := gin.New()
	r.POST("/login", RateLimit(rdb, 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := doRequest(r, http.MethodPost, "/login", ""); w.Code != http.StatusOK {
			t.Fatalf("第 %d 次请求应放行，实际 %d", i+1, w.Code)
		}
	}
	w := doRequest(r, http.MethodPost, "/login", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("超限应返回 429，实际 %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"RATE_LIMITED"`) {
		t.Errorf("错误码应为 RATE_LIMITED: %s", w.Body.String())
	}
}

func TestRateLimit_NilRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(nil, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		if w := doRequest(r, http.MethodPost, "/login", ""); w.Code != http.StatusOK {
			t.Fatalf("Redis 未启用时应放行，实际 %d", w.Code)
		}
	}
}

// ── BodyLimit / RequestID ──

func TestBodyLimit_RejectsDeclaredOversize(t *testing.T) {
	r := gin.New()
	r.POST("/p", BodyLimit(8), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/p", strings.NewReader(`{"notes":"far too long"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("期望 413，实际 %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"PAYLOAD_TOO_LARGE"`) {
		t.Errorf("错误码应为 PAYLOAD_TOO_LARGE: %s", w.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/p", RequestID(), func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") != "trace-123" || w.Body.String() != "trace-123" {
		t.Errorf("应透传外部 Request-ID，实际 %q", w.Header().Get("X-Request-ID"))
	}

	w = doRequest(r, http.MethodGet, "/p", "")
	if len(w.Header().Get("X-Request-ID")) != 36 {
		t.Errorf("应生成 UUID，实际 %q", w.Header().Get("X-Request-ID"))
	}
}
