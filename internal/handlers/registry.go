package handlers

import "github.com/gin-gonic/gin"

// AppHandlers holds every handler of the application.
type AppHandlers struct {
	HealthHandler        *HealthHandler
	AuthHandler          *AuthHandler
	UserHandler          *UserHandler
	EventHandler         *EventHandler
	NotificationHandler  *NotificationHandler
	AnalyticsHandler     *AnalyticsHandler
	ConfigurationHandler *ConfigurationHandler
}

// RegisterAll mounts every handler's routes on the group.
func (h *AppHandlers) RegisterAll(r *gin.RouterGroup) {
	h.HealthHandler.RegisterRoutes(r)
	h.AuthHandler.RegisterRoutes(r)
	h.UserHandler.RegisterRoutes(r)
	h.EventHandler.RegisterRoutes(r)
	h.NotificationHandler.RegisterRoutes(r)
	h.AnalyticsHandler.RegisterRoutes(r)
	h.ConfigurationHandler.RegisterRoutes(r)
}
