package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"devmarket/internal/config"
	"devmarket/internal/migration"
	"devmarket/internal/model"
	"devmarket/internal/repository"
	"devmarket/internal/router"
	"devmarket/internal/ws"
	"devmarket/pkg/database"
	"devmarket/pkg/storage"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Seed categories, settings and the admin account
	seedDefaults(db, cfg)

	// 4. Setup WebSocket Hub and upload storage
	wsHub := ws.NewHub()
	go wsHub.Run()

	files, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	// 5. Setup Fiber and routes
	app := router.New(router.Deps{
		Config: cfg,
		DB:     db,
		Hub:    wsHub,
		Files:  files,
	})

	// 6. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server exited")
}

// seedDefaults creates default categories, settings and the admin user if they don't exist
func seedDefaults(db *gorm.DB, cfg *config.Config) {
	if err := repository.NewCategoryRepo(db).SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed categories: %v", err)
	}
	if err := repository.NewSettingRepo(db).SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed settings: %v", err)
	}

	userRepo := repository.NewUserRepo(db)
	if _, err := userRepo.FindByEmail(cfg.AdminEmail); err == nil {
		return
	}

	admin := &model.User{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		FullName: "Administrator",
		Status:   model.UserActive,
	}
	admin.ApplyRole(model.RoleAdmin)
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
		return
	}
	log.Printf("Admin user created: %s", cfg.AdminEmail)
}
