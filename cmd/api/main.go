package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/puedeser233-alt/SiteSnapAI/internal/config"
	"github.com/puedeser233-alt/SiteSnapAI/internal/handler"
	"github.com/puedeser233-alt/SiteSnapAI/internal/middleware"
	"github.com/puedeser233-alt/SiteSnapAI/internal/models"
	"github.com/puedeser233-alt/SiteSnapAI/internal/repository"
	"github.com/puedeser233-alt/SiteSnapAI/internal/service"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/database"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/email"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/naming"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/payment"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/storage"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/watermark"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Config'i yükle
	cfg := config.LoadConfig()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	// Initialize database
	db := database.NewDatabase()

	// Run migrations
	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Photo{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	photoRepo := repository.NewPhotoRepository(db)

	// Watermark stamper
	stamper, err := watermark.New()
	if err != nil {
		log.Fatal("Failed to initialize watermark stamper:", err)
	}

	// Storage services
	driveStorage := storage.NewGoogleDriveStorage(
		cfg.Google.ClientID,
		cfg.Google.ClientSecret,
		cfg.Google.RedirectURL,
	)
	thumbStorage, err := storage.NewCloudflareStorage(cfg)
	if err != nil {
		log.Fatal("Failed to initialize R2 storage:", err)
	}

	// Email service
	emailService := email.NewEmailService()

	// AI naming client
	assistant := naming.NewDeepSeekClient(cfg.DeepSeek.APIKey, cfg.DeepSeek.BaseURL, cfg.DeepSeek.Model)

	// Stripe service
	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey)

	// Services
	authService := service.NewAuthService(userRepo, emailService)
	userService := service.NewUserService(userRepo)
	projectService := service.NewProjectService(projectRepo, userRepo)
	photoService := service.NewPhotoService(
		userRepo,
		projectRepo,
		photoRepo,
		driveStorage,
		thumbStorage,
		stamper,
		zapLogger,
	)
	driveService := service.NewDriveService(driveStorage, userRepo, zapLogger)
	paymentService := service.NewPaymentService(stripeService, userRepo, cfg, zapLogger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	projectHandler := handler.NewProjectHandler(projectService)
	photoHandler := handler.NewPhotoHandler(photoService)
	driveHandler := handler.NewDriveHandler(driveService, cfg.AppURL, zapLogger)
	paymentHandler := handler.NewPaymentHandler(paymentService, cfg.Stripe.WebhookSecret, zapLogger)
	aiHandler := handler.NewAIHandler(assistant)

	// Router
	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // base64 foto payload'ları için
	})

	// Global Middleware'ler önce tanımlanmalı
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AppURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Stripe webhook (public, imza ile doğrulanır)
	api.Post("/payment/webhook", paymentHandler.HandleWebhook)

	// Google OAuth callback (public, state ile doğrulanır)
	api.Get("/drive/callback", driveHandler.HandleCallback)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware())

	user := protected.Group("/user")
	user.Get("/profile", userHandler.GetMyProfile)
	user.Put("/profile", userHandler.UpdateProfile)
	user.Put("/change-password", userHandler.ChangePassword)

	projects := protected.Group("/projects")
	projects.Post("/", projectHandler.CreateProject)
	projects.Get("/", projectHandler.GetMyProjects)
	projects.Get("/:id", projectHandler.GetProject)
	projects.Put("/:id", projectHandler.UpdateProject)
	projects.Delete("/:id", projectHandler.DeleteProject)
	projects.Get("/:id/photos", photoHandler.GetProjectPhotos)

	photos := protected.Group("/photos")
	photos.Post("/upload", photoHandler.UploadPhoto)
	photos.Delete("/:id", photoHandler.DeletePhoto)

	drive := protected.Group("/drive")
	drive.Get("/connect", driveHandler.GetAuthURL)
	drive.Post("/disconnect", driveHandler.Disconnect)

	payments := protected.Group("/payment")
	payments.Post("/checkout", paymentHandler.CreateCheckoutSession)
	payments.Post("/portal", paymentHandler.CreatePortalSession)

	ai := protected.Group("/ai")
	ai.Post("/analyze", aiHandler.AnalyzePhoto)

	log.Fatal(app.Listen(":8080"))
}
