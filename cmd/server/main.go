package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"dofe-kas/internal/adapters/http/middleware"
	"dofe-kas/internal/adapters/http/routes"
	"dofe-kas/internal/adapters/persistence/models"
	"dofe-kas/internal/adapters/persistence/repositories"
	"dofe-kas/internal/config"
	"dofe-kas/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "dofe-kas/docs" // Swagger docs
)

// @title DofE Kas API
// @version 1.0
// @description Sistem manajemen kas dan keanggotaan DofE Satya Terra Bhinneka

// @contact.name API Support
// @contact.email dofe@satyaterrabhinneka.ac.id

// @host localhost:5000
// @BasePath /
// @schemes http https

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
	defer config.CloseDatabase(db)

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed the initial admin account
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed admin user: %v", err)
	}

	// Nightly cleanup of expired refresh credentials (02:00)
	cronService := services.NewCronService(repositories.NewUserRepository(db))
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "DofE Kas API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    10 * 1024 * 1024, // proof images
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	if err := routes.Setup(app, db, cfg); err != nil {
		log.Fatalf("❌ Failed to setup routes: %v", err)
	}

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
