package handlers

import (
	"net/http"

	"eventix_backend/internal/middleware"
	"eventix_backend/internal/models"
	"eventix_backend/internal/services"
	"eventix_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Protected routes - all authenticated users
	notifications := r.Group("/notifications")
	notifications.Use(h.Auth())
	{
		notifications.GET("", h.GetUserNotifications)
		notifications.PATCH("/read-all", h.MarkAllAsRead)
		notifications.PATCH("/:id/read", h.MarkAsRead)
		notifications.DELETE("/:id", h.DeleteNotification)
	}

	// Admin routes
	admin := notifications.Group("")
	admin.Use(middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.POST("", h.CreateNotification)
		admin.POST("/bulk", h.SendBulkNotifications)
		admin.DELETE("/expired", h.CleanupExpired)
	}
}

// --- User handlers ---

func (h *NotificationHandler) GetUserNotifications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.NotificationListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.notificationService.GetUserNotifications(c.Request.Context(), userID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success:     true,
		Data:        resp.Notifications,
		UnreadCount: &resp.UnreadCount,
		Pagination:  &resp.Pagination,
	})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkAsRead(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondMessage(c, "Notification marked as read", notification)
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondMessage(c, "All notifications marked as read", gin.H{"modified_count": count})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.DeleteNotification(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondMessage(c, "Notification deleted successfully", nil)
}

// --- Admin handlers ---

func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	notification, err := h.notificationService.CreateNotification(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondCreated(c, "Notification created successfully", notification)
}

func (h *NotificationHandler) SendBulkNotifications(c *gin.Context) {
	var req dto.BulkNotificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	notifications, err := h.notificationService.SendBulkNotifications(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondCreated(c, "Bulk notifications sent successfully", gin.H{
		"count":         len(notifications),
		"notifications": notifications,
	})
}

func (h *NotificationHandler) CleanupExpired(c *gin.Context) {
	count, err := h.notificationService.CleanupExpiredNotifications(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondMessage(c, "Expired notifications removed", gin.H{"deleted_count": count})
}
