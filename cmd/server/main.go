package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"blog_api/internal/pkg/config"
	"blog_api/internal/pkg/identity"
	"blog_api/internal/server"
	"blog_api/internal/storage"
	"blog_api/pkg/logger"
	"blog_api/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.App.Env); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.Mode)

	backend, err := storage.Open(cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Log.Error("Failed to close storage", zap.Error(err))
		}
	}()

	authority, closeAuthority, err := server.NewAuthority(context.Background(), cfg)
	if err != nil {
		logger.Log.Fatal("Failed to init identity provider", zap.Error(err))
	}
	defer func() { _ = closeAuthority() }()

	collector := metrics.NewMetricsCollector()
	if backend.DB != nil {
		if sqlDB, err := backend.DB.DB(); err == nil {
			if err := collector.RegisterDB(cfg.Database.DBName, sqlDB); err != nil {
				logger.Log.Warn("Failed to register db metrics", zap.Error(err))
			}
		}
	}

	// 内存模式没有迁移与种子工具，启动时直接创建管理员
	if cfg.Database.Driver == config.DriverMemory {
		seedMemoryAdmin(cfg, backend, authority)
	}

	r, err := server.New(cfg, backend, authority, collector)
	if err != nil {
		logger.Log.Fatal("Failed to init modules", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Log.Info("Starting server", zap.String("addr", srv.Addr), zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Failed to shutdown server", zap.Error(err))
		return
	}
	logger.Log.Info("Server stopped")
}

func seedMemoryAdmin(cfg *config.Config, backend *storage.Backend, issuer identity.Issuer) {
	ctx := context.Background()
	admin, _, err := storage.SeedAdmin(ctx, backend.Users, cfg.App.AdminName, cfg.App.AdminEmail)
	if err != nil {
		logger.Log.Fatal("Failed to seed admin", zap.Error(err))
	}

	token, err := issuer.Issue(ctx, admin.Principal())
	if err != nil {
		logger.Log.Fatal("Failed to issue admin token", zap.Error(err))
	}
	logger.Log.Info("Admin seeded", zap.String("email", admin.Email), zap.String("token", token))
}
