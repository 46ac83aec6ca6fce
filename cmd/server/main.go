package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"saccolink/internal/adapters/http/middleware"
	"saccolink/internal/adapters/http/routes"
	"saccolink/internal/adapters/persistence/models"
	"saccolink/internal/config"
	"saccolink/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// @title SaccoLink API
// @version 1.0
// @description Savings and credit cooperative back-office API

// @contact.name API Support
// @contact.email support@saccolink.co.ke

// @host api.saccolink.co.ke
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed default admin account
	seeder := config.NewSeeder(db)
	if err := seeder.Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}

	// Start nightly balance reconciliation (02:30 daily)
	reconcileService := services.NewReconcileService(db)
	if err := reconcileService.Start(); err != nil {
		log.Fatalf("❌ Failed to schedule reconciliation: %v", err)
	}
	defer reconcileService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "SaccoLink API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, reconcileService, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
