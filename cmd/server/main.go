package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"cab-booking/backend/config"
	"cab-booking/backend/internal/api/handler"
	"cab-booking/backend/internal/api/router"
	"cab-booking/backend/internal/repository"
	"cab-booking/backend/internal/service"
	"cab-booking/backend/pkg/database"
	"cab-booking/backend/pkg/jwt"
	applogger "cab-booking/backend/pkg/logger"
	"cab-booking/backend/pkg/mq"
	"cab-booking/backend/pkg/redis"
	"cab-booking/backend/pkg/response"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("timezone", cfg.Server.Timezone),
	)
	response.SetDebug(cfg.Server.Debug)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，Token 黑名单与限流将不可用", zap.Error(err))
			rdb = nil
		}
	}

	// 5. 连接 RabbitMQ（可选：预约事件发布）
	var publisher *mq.Publisher
	if cfg.MQ.Enabled {
		publisher, err = mq.NewPublisher(&cfg.MQ, logger)
		if err != nil {
			logger.Warn("RabbitMQ 连接失败，预约事件将不会发布", zap.Error(err))
			publisher = nil
		}
	}

	// 6. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. 依赖注入: Repository → Service → Handler
	// 接口字段只在客户端非 nil 时赋值，避免持有类型化 nil
	var deps service.Deps
	if rdb != nil {
		deps.Blacklist = rdb
	}
	if publisher != nil {
		deps.Events = publisher
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, deps, logger)

	checks := []handler.HealthCheck{{Name: "postgres", Ping: sqlDB.PingContext}}
	if rdb != nil {
		checks = append(checks, handler.HealthCheck{Name: "redis", Ping: rdb.Ping})
	}
	h := handler.NewHandler(svc, checks...)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if publisher != nil {
		publisher.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	_ = sqlDB.Close()

	logger.Info("服务器已关闭")
}
