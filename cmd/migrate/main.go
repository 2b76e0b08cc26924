package main

import (
	"errors"
	"flag"
	"log"

	"blog_api/internal/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	down := flag.Bool("down", false, "回滚所有迁移")
	force := flag.Int("force", -1, "强制设置版本号（修复 dirty 状态）")
	source := flag.String("source", "file://migrations", "迁移文件目录")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatalf("migrations require the postgres driver, got %q", cfg.Database.Driver)
	}

	m, err := migrate.New(*source, cfg.Database.URL())
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	if *force >= 0 {
		if err := m.Force(*force); err != nil {
			log.Fatal("Failed to force version:", err)
		}
		log.Printf("Forced version %d", *force)
		return
	}

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}

	// dirty 状态需要人工确认后通过 -force 修复
	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) {
		log.Fatalf("Database is dirty at version %d, fix it and rerun with -force", dirty.Version)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal(err)
	}

	log.Println("Migration successful")
}
