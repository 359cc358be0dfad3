package handlers

import (
	"eventix_backend/internal/middleware"
	"eventix_backend/internal/models"
	"eventix_backend/internal/services"
	"eventix_backend/internal/services/dto"
	"eventix_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ConfigurationHandler struct {
	*BaseHandler
	configService services.ConfigurationService
}

func NewConfigurationHandler(base *BaseHandler, configService services.ConfigurationService) *ConfigurationHandler {
	return &ConfigurationHandler{
		BaseHandler:   base,
		configService: configService,
	}
}

func (h *ConfigurationHandler) RegisterRoutes(r *gin.RouterGroup) {
	configs := r.Group("/configurations")

	// Public routes
	configs.GET("/public", h.GetPublic)

	// Admin routes
	admin := configs.Group("")
	admin.Use(h.Auth(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("", h.GetAll)
		admin.GET("/category/:category", h.GetByCategory)
		admin.GET("/:key", h.Get)
		admin.PUT("/:key", h.Set)
	}
}

func (h *ConfigurationHandler) GetPublic(c *gin.Context) {
	values, err := h.configService.GetPublic(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, values)
}

func (h *ConfigurationHandler) GetAll(c *gin.Context) {
	configs, err := h.configService.GetAll(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, configs)
}

func (h *ConfigurationHandler) GetByCategory(c *gin.Context) {
	configs, err := h.configService.GetByCategory(c.Request.Context(), models.ConfigCategory(c.Param("category")))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, configs)
}

func (h *ConfigurationHandler) Get(c *gin.Context) {
	key := c.Param("key")

	value, err := h.configService.Get(c.Request.Context(), key)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if value == nil {
		h.HandleServiceError(c, apperrors.ErrNotFound(nil, "configuration", "Configuration not found"))
		return
	}

	respondOK(c, gin.H{"key": key, "value": value})
}

func (h *ConfigurationHandler) Set(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SetConfigurationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	cfg, err := h.configService.Set(c.Request.Context(), c.Param("key"), &req, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondMessage(c, "Configuration updated successfully", cfg)
}
