package main

import (
	"log"
	"os"

	"user_backend/internal/platform/config"
	"user_backend/internal/platform/db"
	"user_backend/internal/platform/logging"
)

// migrate は STORE_BACKEND=gorm 用のスキーマ作成のみを行うワンショットコマンドです。
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.Setup(cfg.Log, os.Stdout)

	cfg.DB.RunMigrations = false
	gdb, err := db.OpenDB(cfg.DB)
	if err != nil {
		logger.Error("failed to connect database", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := db.Migrate(gdb); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	logger.Info("migrate ok", "driver", cfg.DB.Driver)
}
