package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"blog_api/internal/pkg/config"
	"blog_api/internal/server"
	"blog_api/internal/storage"
	"blog_api/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	name := flag.String("name", "", "管理员名称，默认取 app.admin_name")
	email := flag.String("email", "", "管理员邮箱，默认取 app.admin_email")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.App.Env); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if *name == "" {
		*name = cfg.App.AdminName
	}
	if *email == "" {
		*email = cfg.App.AdminEmail
	}

	ctx := context.Background()
	backend, err := storage.Open(cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer backend.Close()

	authority, closeAuthority, err := server.NewAuthority(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to init identity provider", zap.Error(err))
	}
	defer closeAuthority()

	admin, created, err := storage.SeedAdmin(ctx, backend.Users, *name, *email)
	if err != nil {
		logger.Log.Fatal("Failed to seed admin", zap.Error(err))
	}
	if created {
		logger.Log.Info("Admin created", zap.String("id", admin.ID), zap.String("email", admin.Email))
	} else {
		logger.Log.Info("Admin already exists", zap.String("id", admin.ID), zap.String("email", admin.Email))
	}

	token, err := authority.Issue(ctx, admin.Principal())
	if err != nil {
		logger.Log.Fatal("Failed to issue token", zap.Error(err))
	}
	fmt.Println(token)
}
