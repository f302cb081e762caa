package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fwork_backend/database"
	"fwork_backend/internal/config"
	"fwork_backend/internal/email"
	"fwork_backend/internal/handlers"
	"fwork_backend/internal/logger"
	"fwork_backend/internal/middleware"
	"fwork_backend/internal/repositories"
	"fwork_backend/internal/routes"
	"fwork_backend/internal/services"
	"fwork_backend/internal/validator"
	"fwork_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer, worker := initializeServices(cfg, gormDB)

	if worker != nil {
		worker.Start(context.Background())
	}

	customValidator := validator.New()
	appHandlers := handlers.NewAppHandlers(serviceContainer, customValidator)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) (*services.ServiceContainer, *workers.EmailWorker) {
	userRepo := repositories.NewUserRepository()
	projectRepo := repositories.NewProjectRepository()
	applicationRepo := repositories.NewApplicationRepository()
	chatRepo := repositories.NewChatRepository()
	notificationRepo := repositories.NewNotificationRepository()
	preferenceRepo := repositories.NewPreferenceRepository()

	emailProvider := buildEmailProvider(cfg)

	var worker *workers.EmailWorker
	var emailQueue workers.EmailQueue
	if emailProvider != nil {
		worker = workers.NewEmailWorker(gormDB, emailProvider, notificationRepo, cfg.Notifications.EmailQueueSize)
		emailQueue = worker
	}

	notificationService := services.NewNotificationService(notificationRepo, preferenceRepo, userRepo, emailQueue)
	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, notificationService)
	applicationService := services.NewApplicationService(applicationRepo, projectRepo, userRepo, notificationService)
	chatService := services.NewChatService(chatRepo, userRepo, notificationService)

	return &services.ServiceContainer{
		AuthService:         authService,
		ProjectService:      projectService,
		ApplicationService:  applicationService,
		ChatService:         chatService,
		NotificationService: notificationService,
		EmailProvider:       emailProvider,
	}, worker
}

// buildEmailProvider returns the SMTP provider, or the mock when no SMTP
// host is configured so local development works without a mail server.
func buildEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" || cfg.Server.Env == "test" {
		logger.Warn("SMTP not configured, using mock email provider")
		return &MockEmailProvider{}
	}

	renderer := email.NewTemplateManager()
	if cfg.Email.TemplatesDir != "" {
		if err := renderer.LoadTemplates(cfg.Email.TemplatesDir); err != nil {
			logger.Warn("Failed to load email templates from disk, built-ins remain", "error", err)
		}
	}

	smtpCfg := email.DefaultConfig()
	smtpCfg.Host = cfg.Email.SMTPHost
	smtpCfg.Port = cfg.Email.SMTPPort
	smtpCfg.Username = cfg.Email.SMTPUsername
	smtpCfg.Password = cfg.Email.SMTPPassword
	smtpCfg.FromEmail = cfg.Email.FromEmail
	smtpCfg.FromName = cfg.Email.FromName
	smtpCfg.UseTLS = cfg.Email.UseTLS
	smtpCfg.TemplatesDir = cfg.Email.TemplatesDir

	return email.NewSMTPProvider(smtpCfg, renderer)
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
