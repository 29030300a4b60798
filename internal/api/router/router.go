package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cab-booking/backend/config"
	"cab-booking/backend/internal/api/handler"
	"cab-booking/backend/internal/api/middleware"
	"cab-booking/backend/internal/policy"
	"cab-booking/backend/pkg/jwt"
	"cab-booking/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil：黑名单与限流降级放行
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── 健康检查 ──
	r.GET("/health", h.Health.Health)

	authLimit := middleware.RateLimit(rdb, cfg.RateLimit.AuthPerMinute, time.Minute)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authLimit, h.Auth.Login)
			auth.POST("/register", authLimit, h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 用户模块（管理员）
			users := authorized.Group("/users", middleware.Permission(policy.UserManage))
			{
				users.GET("", h.User.ListUsers)
				users.POST("", h.User.CreateUser)
				users.GET("/:id", h.User.GetUser)
				users.PUT("/:id", h.User.UpdateUser)
				users.DELETE("/:id", h.User.DeleteUser)
			}

			// 地点模块
			locations := authorized.Group("/locations")
			{
				locations.GET("", h.Location.ListLocations)
				locations.GET("/:id", h.Location.GetLocation)
				locations.POST("", middleware.Permission(policy.LocationManage), h.Location.CreateLocation)
				locations.PUT("/:id", middleware.Permission(policy.LocationManage), h.Location.UpdateLocation)
				locations.DELETE("/:id", middleware.Permission(policy.LocationManage), h.Location.DeleteLocation)
			}

			// 预约模块（归属与角色判断在 Service 层按授权表执行）
			bookings := authorized.Group("/bookings")
			{
				bookings.POST("", h.Booking.CreateBooking)
				bookings.GET("", h.Booking.ListBookings)
				bookings.GET("/my-bookings", h.Booking.ListMyBookings)
				bookings.GET("/my-bookings/calendar.ics", h.Booking.MyCalendar)
				bookings.GET("/stats", h.Booking.GetStats)
				bookings.GET("/:id", h.Booking.GetBooking)
				bookings.PUT("/:id", h.Booking.UpdateBooking)
				bookings.PATCH("/:id/status", h.Booking.UpdateStatus)
				bookings.DELETE("/:id", h.Booking.DeleteBooking)
			}

			// 管理端
			admin := authorized.Group("/admin")
			{
				admin.GET("/stats", middleware.Permission(policy.StatsDashboard), h.Admin.Dashboard)
				admin.PATCH("/bookings/:id/status", h.Admin.CorrectStatus)
				admin.PUT("/bookings/:id/assignment", h.Admin.AssignBooking)
				admin.GET("/bookings/export", h.Admin.ExportBookings)
			}

			// 车辆模块
			vehicles := authorized.Group("/vehicles")
			{
				vehicles.GET("", h.Vehicle.ListVehicles)
				vehicles.GET("/:id", h.Vehicle.GetVehicle)
				vehicles.POST("", middleware.Permission(policy.FleetManage), h.Vehicle.CreateVehicle)
				vehicles.PUT("/:id", middleware.Permission(policy.FleetManage), h.Vehicle.UpdateVehicle)
				vehicles.DELETE("/:id", middleware.Permission(policy.FleetManage), h.Vehicle.DeleteVehicle)
			}

			// 司机模块
			drivers := authorized.Group("/drivers")
			{
				drivers.PATCH("/me/status", middleware.Permission(policy.DriverSelf), h.Driver.UpdateMyStatus)
				drivers.GET("", middleware.Permission(policy.FleetView), h.Driver.ListDrivers)
				drivers.GET("/:id", middleware.Permission(policy.FleetView), h.Driver.GetDriver)
				drivers.POST("", middleware.Permission(policy.FleetManage), h.Driver.CreateDriver)
				drivers.PUT("/:id", middleware.Permission(policy.FleetManage), h.Driver.UpdateDriver)
				drivers.DELETE("/:id", middleware.Permission(policy.FleetManage), h.Driver.DeleteDriver)
			}

			// 安全事件
			incidents := authorized.Group("/incidents")
			{
				incidents.POST("", h.Incident.ReportIncident)
				incidents.GET("", h.Incident.ListIncidents)
				incidents.PATCH("/:id/resolve", h.Incident.ResolveIncident)
			}
		}
	}

	return r
}
