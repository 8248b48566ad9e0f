package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"user_backend/internal/app/di"
	"user_backend/internal/app/router"
	usershandler "user_backend/internal/feature/users/transport/handler"
	"user_backend/internal/feature/users/usecase"
	"user_backend/internal/platform/config"
	infrahttp "user_backend/internal/platform/http"
	healthhandler "user_backend/internal/platform/http/handler"
	"user_backend/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 設定（.env があれば読み込む）
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.Setup(cfg.Log, os.Stdout)
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store
	store, err := di.NewStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open user store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close user store", "error", err)
		}
	}()

	// Usecase
	usersUC := usecase.NewUserUsecase(store.Users)

	// Handler
	usersH := usershandler.NewUserHandler(usersUC, cfg.Server.BasePath)

	// ルータ生成
	r, err := router.NewRouter(usersH, router.Options{
		BasePath:           cfg.Server.BasePath,
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		Health:             healthhandler.NewHealth(store.Ping),
		Logger:             logger,
	})
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	srv := infrahttp.NewServer(cfg.Addr(), r)
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "base_path", cfg.Server.BasePath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}
}
