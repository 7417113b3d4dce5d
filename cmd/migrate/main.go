package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"user-admin-api/internal/core/config"
	"user-admin-api/internal/core/database"
	"user-admin-api/internal/core/logger"
)

// migrate 只建表/索引，然后退出
func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG_PATH"), "config file path")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.MustLoad(*cfgPath)
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db, err := database.NewGorm(database.Opts{
		Driver:       cfg.DB.Driver,
		DSN:          cfg.DB.DSN,
		Username:     cfg.DB.Username,
		Password:     cfg.DB.Password,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     cfg.DB.LogLevel,
		Logger:       log,
	})
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("migrate FAILED", zap.Error(err))
	}
	log.Info("migrate done", zap.String("driver", cfg.DB.Driver))
}
