package routes

import (
	"github.com/gin-gonic/gin"

	"tradematch_backend/internal/handlers"
	"tradematch_backend/internal/logger"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	guards handlers.Guards,
) {
	// Служебные маршруты без версии
	appHandlers.Health.RegisterRoutes(ginRouter)

	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.User.RegisterRoutes(api, guards)
		appHandlers.Job.RegisterRoutes(api, guards)
		appHandlers.Review.RegisterRoutes(api, guards)
		appHandlers.Verification.RegisterRoutes(api, guards)
		appHandlers.Audit.RegisterRoutes(api, guards)
		appHandlers.Subscription.RegisterRoutes(api, guards)
	}

	logger.Info("HTTP routes registered", "count", len(ginRouter.Routes()))
}
