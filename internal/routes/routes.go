package routes

import (
	"eventix_backend/internal/handlers"
	"eventix_backend/internal/logger"
	"eventix_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the HTTP API under /api.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := ginRouter.Group("/api")
	appHandlers.RegisterAll(api)

	ginRouter.NoRoute(func(c *gin.Context) {
		apperrors.HandleError(c, apperrors.ErrNotFound(nil, "route", "Route not found"))
	})

	logger.Info("HTTP routes registered", "prefix", "/api", "count", len(ginRouter.Routes()))
}
