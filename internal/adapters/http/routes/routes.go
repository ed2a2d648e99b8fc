package routes

import (
	"dofe-kas/internal/adapters/http/handlers"
	"dofe-kas/internal/adapters/http/middleware"
	"dofe-kas/internal/adapters/persistence/repositories"
	"dofe-kas/internal/adapters/storage"
	"dofe-kas/internal/config"
	"dofe-kas/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers and configures all routes
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) error {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	kasRepo := repositories.NewKasRepository(db)
	pengeluaranRepo := repositories.NewPengeluaranRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)

	// Proof image storage
	uploader, err := storage.NewCloudinaryUploader(storage.CloudinaryConfig{
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
		Folder:    cfg.Cloudinary.Folder,
	})
	if err != nil {
		return err
	}

	// Initialize services
	auditService := services.NewAuditService(auditRepo)
	mailerService := services.NewMailerService(cfg.Mail)
	authService := services.NewAuthService(userRepo, mailerService, auditService, cfg)
	userService := services.NewUserService(userRepo, auditService)
	kasService := services.NewKasService(kasRepo, userRepo, uploader, auditService)
	pengeluaranService := services.NewPengeluaranService(pengeluaranRepo, auditService)
	summaryService := services.NewSummaryService(kasRepo, pengeluaranRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	kasHandler := handlers.NewKasHandler(kasService, summaryService)
	pengeluaranHandler := handlers.NewPengeluaranHandler(pengeluaranService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	auth := middleware.AuthMiddleware(cfg)

	// Auth routes
	app.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	app.Get("/refreshToken", authHandler.RefreshToken)
	app.Delete("/logout", authHandler.Logout)
	app.Patch("/NewPass", auth, authHandler.ChangePassword)
	app.Post("/forgot-password", middleware.StrictRateLimiter(), authHandler.ForgotPassword)
	app.Post("/reset-password", middleware.StrictRateLimiter(), authHandler.ResetPassword)

	// Member management routes (capability checks live in the services)
	app.Post("/register", auth, userHandler.Register)
	app.Get("/users", auth, userHandler.List)
	app.Patch("/users/:id", auth, userHandler.Update)
	app.Delete("/users/:id", auth, userHandler.Delete)

	// Kas routes
	app.Post("/kas", auth, kasHandler.Submit)
	app.Get("/kas/my", auth, kasHandler.GetMy)
	app.Get("/kas/staff", auth, kasHandler.GetStaff)
	app.Get("/kas/summary", auth, kasHandler.Summary)
	app.Post("/kas/manual", auth, kasHandler.Manual)
	app.Patch("/kas/bendahara/:id", auth, kasHandler.Verify)
	app.Delete("/kas/staff/:id", auth, kasHandler.Delete)

	// Pengeluaran routes
	app.Get("/pengeluaran", auth, pengeluaranHandler.List)
	app.Post("/pengeluaran", auth, pengeluaranHandler.Create)
	app.Delete("/pengeluaran/:id", auth, pengeluaranHandler.Delete)

	// Audit trail routes
	app.Get("/audit-logs", auth, auditHandler.List)
	app.Get("/audit-logs/stats", auth, auditHandler.Stats)

	return nil
}
