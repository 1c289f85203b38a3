package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"giglink_backend/internal/config"
	"giglink_backend/internal/database"
	"giglink_backend/internal/email"
	"giglink_backend/internal/handlers"
	"giglink_backend/internal/logger"
	"giglink_backend/internal/middleware"
	"giglink_backend/internal/repositories"
	"giglink_backend/internal/routes"
	"giglink_backend/internal/services"
	"giglink_backend/internal/validator"
	"giglink_backend/ws"
)

// Run boots the full server: config, logger, database, router.
func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("database connection failed", "error", err)
	}

	engine := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", address)
	if err := engine.Run(address); err != nil {
		logger.Fatal("server startup error", "error", err)
	}
}

// SetupRouter wires repositories, services, handlers and the websocket
// gateway onto a gin engine. Tests call it directly with their own database.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	svc := initializeServices(cfg, gormDB)

	v := validator.New()
	appHandlers := handlers.NewAppHandlers(v, svc)

	wsManager := ws.NewManager()
	// Presence is derived from live connections, so the chat service learns
	// about the manager after both exist.
	svc.ChatService.SetPresenceChecker(wsManager)
	wsHandler := ws.NewHandler(wsManager, svc.ChatService, svc.NotificationService, cfg)

	engine := initializeGinEngine(cfg)
	routes.RegisterRoutes(engine, appHandlers, wsHandler)

	return engine
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	var emailProvider email.Provider
	if cfg.Email.Enabled {
		emailProvider = email.NewSMTPProvider(cfg)
	} else {
		logger.Warn("email disabled, using noop provider")
		emailProvider = email.NoopProvider{}
	}

	userRepo := repositories.NewUserRepository(gormDB)
	convRepo := repositories.NewConversationRepository(gormDB)
	msgRepo := repositories.NewMessageRepository(gormDB)
	bookingRepo := repositories.NewBookingRepository(gormDB)
	reviewRepo := repositories.NewReviewRepository(gormDB)
	notifRepo := repositories.NewNotificationRepository(gormDB)

	chatService := services.NewChatService(convRepo, msgRepo, userRepo)
	bookingService := services.NewBookingService(bookingRepo, convRepo, reviewRepo, userRepo, notifRepo, emailProvider)
	notificationService := services.NewNotificationService(notifRepo)

	return &services.ServiceContainer{
		ChatService:         chatService,
		BookingService:      bookingService,
		NotificationService: notificationService,
	}
}

func initializeGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.LoggingMiddleware())
	return engine
}
