package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"tradematch_backend/internal/auth"
	"tradematch_backend/internal/cache"
	"tradematch_backend/internal/config"
	"tradematch_backend/internal/database"
	"tradematch_backend/internal/email"
	"tradematch_backend/internal/handlers"
	"tradematch_backend/internal/logger"
	"tradematch_backend/internal/middleware"
	"tradematch_backend/internal/repositories"
	"tradematch_backend/internal/routes"
	"tradematch_backend/internal/services"
	"tradematch_backend/internal/validator"
	"tradematch_backend/internal/workers"
	"tradematch_backend/pkg/apperrors"
)

func Run() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.IsDevelopment())

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	repos := services.NewRepositories()
	if err := seedFirstAdmin(gormDB, cfg, repos.Users); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	redisClient := newRedisClient(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ginRouter := SetupRouter(cfg, gormDB, repos, redisClient)

	workers.NewJobWorker(gormDB, repos.Jobs, cfg.JobCloseInterval()).Start(ctx)

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
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
	logger.Info("Server stopped")
}

// newRedisClient - nil, если адрес не задан (кэш прав отключен)
func newRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		logger.Warn("Redis address is not set. Entitlement cache disabled.")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func newEmailProvider(cfg *config.Config) email.Provider {
	if !cfg.Email.Enabled {
		logger.Warn("Email is disabled. Notifications will be dropped.")
		return email.NewNoopProvider()
	}

	templates, err := email.NewTemplateManager()
	if err != nil {
		logger.Fatal("Failed to load email templates", "error", err)
	}

	smtpCfg := email.DefaultConfig()
	smtpCfg.Host = cfg.Email.SMTPHost
	smtpCfg.Port = cfg.Email.SMTPPort
	smtpCfg.Username = cfg.Email.SMTPUsername
	smtpCfg.Password = cfg.Email.SMTPPassword
	smtpCfg.FromEmail = cfg.Email.FromEmail
	smtpCfg.FromName = cfg.Email.FromName

	return email.NewSMTPProvider(smtpCfg, templates)
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, repos *services.Repositories, redisClient *redis.Client) *gin.Engine {
	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, repos, redisClient)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(gormDB)

	// 4. Маршруты
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	guards := handlers.Guards{
		Auth:     middleware.AuthMiddleware(tokens),
		Admin:    middleware.AdminMiddleware(repos.Users),
		Internal: middleware.InternalKeyMiddleware(cfg.Auth.InternalKey),
	}
	routes.RegisterRoutes(ginRouter, appHandlers, guards)

	return ginRouter
}

func initializeServices(cfg *config.Config, repos *services.Repositories, redisClient *redis.Client) *services.ServiceContainer {
	return services.NewServiceContainer(services.Deps{
		Repos:            repos,
		EntitlementCache: cache.NewEntitlementCache(redisClient, cfg.EntitlementTTL()),
		Notifier:         newEmailProvider(cfg),
		WebhookSecret:    cfg.Payments.WebhookSecret,
	})
}

func initializeHandlers(svc *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)
	return handlers.NewAppHandlers(baseHandler, svc)
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedFirstAdmin выдает права администратора пользователю FIRST_ADMIN_EMAIL.
// Учетные записи создает провайдер идентификации, здесь только флаг is_admin.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config, users repositories.UserRepository) error {
	adminEmail := cfg.FirstAdminEmail
	if adminEmail == "" {
		logger.Warn("FIRST_ADMIN_EMAIL is not set. Skipping admin seeding.")
		return nil
	}

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	updated, err := users.SetAdminByEmail(tx, adminEmail)
	if err != nil {
		return fmt.Errorf("failed to grant admin: %w", err)
	}
	if !updated {
		logger.Warn("No user with the first admin email yet. It will be promoted on the next start after sync.", "email", adminEmail)
		return nil
	}

	logger.Info("First admin granted", "email", adminEmail)
	return tx.Commit().Error
}
