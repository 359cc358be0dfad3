package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"eventix_backend/internal/auth"
	"eventix_backend/internal/config"
	"eventix_backend/internal/database"
	"eventix_backend/internal/email"
	"eventix_backend/internal/handlers"
	"eventix_backend/internal/logger"
	"eventix_backend/internal/middleware"
	"eventix_backend/internal/push"
	"eventix_backend/internal/repositories"
	"eventix_backend/internal/routes"
	"eventix_backend/internal/services"
	"eventix_backend/internal/validator"
	"eventix_backend/internal/workers"
	"eventix_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func Run() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("production")
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, err := database.OpenSQL(cfg.Database.Driver, cfg.Database.DSN, cfg.IsDevelopment())
	if err != nil {
		logger.Fatal("Failed to open relational database", "error", err)
	}
	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate relational database", "error", err)
	}

	mongoClient, mongoDB, err := database.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.ConnectTimeout)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("MongoDB disconnect failed", "error", err)
		}
	}()
	if err := database.EnsureIndexes(ctx, mongoDB); err != nil {
		logger.Fatal("Failed to create MongoDB indexes", "error", err)
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	serviceContainer, userRepo, err := initializeServices(cfg, gormDB, mongoDB, tokens)
	if err != nil {
		logger.Fatal("Failed to initialize services", "error", err)
	}

	adminID, err := seedFirstAdmin(ctx, userRepo, cfg)
	if err != nil {
		// Without an admin nothing can be managed, so refuse to start.
		logger.Fatal("Failed to seed first admin user", "error", err)
	}
	if err := serviceContainer.ConfigurationService.InitializeDefaults(ctx, adminID); err != nil {
		logger.Fatal("Failed to initialize default configurations", "error", err)
	}

	workers.NewNotificationWorker(serviceContainer.NotificationService, workers.DefaultCleanupInterval).Start(ctx)

	ginRouter := SetupRouter(serviceContainer, storeChecks(gormDB, mongoClient))

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
}

// SetupRouter builds the gin engine with middleware and every route mounted.
func SetupRouter(svc *services.ServiceContainer, checks map[string]handlers.StoreCheck) *gin.Engine {
	appHandlers := initializeHandlers(svc, checks)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, mongoDB *mongo.Database, tokens *auth.TokenManager) (*services.ServiceContainer, repositories.UserRepository, error) {
	emailProvider, err := newEmailProvider(cfg)
	if err != nil {
		return nil, nil, err
	}
	pushSender := push.NewLogSender()

	// --- Repositories ---
	userRepo := repositories.NewUserRepository(gormDB)
	eventRepo := repositories.NewEventRepository(mongoDB)
	analyticsRepo := repositories.NewAnalyticsRepository(mongoDB)
	notificationRepo := repositories.NewNotificationRepository(mongoDB)
	configRepo := repositories.NewConfigurationRepository(mongoDB)

	// --- Services ---
	analyticsService := services.NewAnalyticsService(analyticsRepo, eventRepo)

	return &services.ServiceContainer{
		AuthService:          services.NewAuthService(userRepo, tokens),
		UserService:          services.NewUserService(userRepo),
		EventService:         services.NewEventService(eventRepo, analyticsService),
		AnalyticsService:     analyticsService,
		NotificationService:  services.NewNotificationService(notificationRepo, userRepo, emailProvider, pushSender),
		ConfigurationService: services.NewConfigurationService(configRepo),
		EmailProvider:        emailProvider,
		PushSender:           pushSender,
	}, userRepo, nil
}

// newEmailProvider falls back to logging mail when no SMTP host is set.
func newEmailProvider(cfg *config.Config) (email.Provider, error) {
	templates, err := email.NewDefaultTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP_HOST is not set, emails will only be logged")
		return email.NewLogProvider(templates), nil
	}

	provider := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, templates)
	if err := provider.Validate(); err != nil {
		return nil, fmt.Errorf("invalid smtp configuration: %w", err)
	}
	return provider, nil
}

func initializeHandlers(svc *services.ServiceContainer, checks map[string]handlers.StoreCheck) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator, middleware.AuthMiddleware(svc.AuthService))

	return &handlers.AppHandlers{
		HealthHandler:        handlers.NewHealthHandler(checks),
		AuthHandler:          handlers.NewAuthHandler(baseHandler, svc.AuthService),
		UserHandler:          handlers.NewUserHandler(baseHandler, svc.UserService),
		EventHandler:         handlers.NewEventHandler(baseHandler, svc.EventService, svc.AnalyticsService),
		NotificationHandler:  handlers.NewNotificationHandler(baseHandler, svc.NotificationService),
		AnalyticsHandler:     handlers.NewAnalyticsHandler(baseHandler, svc.AnalyticsService),
		ConfigurationHandler: handlers.NewConfigurationHandler(baseHandler, svc.ConfigurationService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func storeChecks(gormDB *gorm.DB, mongoClient *mongo.Client) map[string]handlers.StoreCheck {
	return map[string]handlers.StoreCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"mongodb": func(ctx context.Context) error {
			return mongoClient.Ping(ctx, nil)
		},
	}
}
