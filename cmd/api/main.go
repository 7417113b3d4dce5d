package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"user-admin-api/internal/core/config"
	"user-admin-api/internal/core/database"
	"user-admin-api/internal/core/limiter"
	"user-admin-api/internal/core/logger"
	"user-admin-api/internal/core/server"
	"user-admin-api/internal/core/telemetry"
	"user-admin-api/internal/repo"
	"user-admin-api/internal/service"
	"user-admin-api/internal/transport/http/handler"
	"user-admin-api/internal/transport/http/router"
	"user-admin-api/internal/transport/http/validation"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.InitTracing(ctx, telemetry.Opts{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.Telemetry.ServiceVersion,
		Env:            cfg.App.Env,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
	}, log)
	if err != nil {
		log.Fatal("tracing init", zap.Error(err))
	}

	if err := validation.Setup(); err != nil {
		log.Fatal("validator init", zap.Error(err))
	}

	// 依赖
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("db handle", zap.Error(err))
	}
	deps := map[string]handler.Pinger{"database": handler.PingFunc(sqlDB.PingContext)}
	perIP := newPerIPLimiter(cfg, log, deps)

	userRepo := repo.NewUserRepo(db)
	userSvc := service.NewUserService(userRepo, service.WithLogger(log.Named("users")))
	userH := handler.NewUserHandler(userSvc)
	healthH := handler.NewHealthHandler(log, 2*time.Second, deps)

	mode := gin.DebugMode
	if cfg.IsProd() {
		mode = gin.ReleaseMode
	}
	r := router.NewAPIEngine(log, router.Options{
		Name:        cfg.App.Name,
		Mode:        mode,
		BasePath:    cfg.App.HTTP.BasePath,
		CORSOrigins: cfg.App.HTTP.CORSOrigins,
		Limits:      cfg.Limits,
		PerIP:       perIP,
		Tracing:     cfg.Telemetry.Enabled,
	}, healthH, router.NewRegistry(userH))

	// HTTP Server
	addr := cfg.App.HTTP.Addr()
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+cfg.App.HTTP.BasePath),
	)

	// 异步启动
	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("user api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Warn("tracing shutdown", zap.Error(err))
	}
	_ = sqlDB.Close()
	log.Info("user api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	return logger.NewWithOptions(logger.Options{
		Level:         cfg.Log.Level,
		JSON:          cfg.Log.JSON,
		Service:       cfg.App.Name,
		Caller:        true,
		SampleInitial: 100,
		Rotate: logger.FileRotate{
			Enable:     cfg.Log.File.Enable,
			Filename:   cfg.Log.File.Filename,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
}

// newPerIPLimiter 配了 redis 就多实例共享配额，否则进程内令牌桶
func newPerIPLimiter(cfg *config.Config, l *zap.Logger, deps map[string]handler.Pinger) limiter.Limiter {
	if cfg.Limits.PerIPRPS <= 0 {
		return nil
	}
	if cfg.Redis.Addr == "" {
		return limiter.NewLocal(cfg.Limits.PerIPRPS, cfg.Limits.PerIPBurst, 10*time.Minute)
	}
	rdb := limiter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	perSecond := int64(cfg.Limits.PerIPRPS)
	if perSecond < 1 {
		perSecond = 1
	}
	rl := limiter.NewRedis(rdb, perSecond, time.Second)
	deps["redis"] = rl
	l.Info("per-ip limiter backed by redis", zap.String("addr", cfg.Redis.Addr))
	return rl
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		SlowThresholdMs:    cfg.DB.SlowThresholdMs,
		Logger:             l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
