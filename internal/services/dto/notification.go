package dto

import (
	"time"

	"eventix_backend/internal/models"
)

// ---------------- Requests ----------------

// NotificationContent is the part of a notification shared by single and
// bulk creation.
type NotificationContent struct {
	Title      string                       `json:"title" validate:"required,max=200"`
	Message    string                       `json:"message" validate:"required,max=1000"`
	Type       models.NotificationType      `json:"type" validate:"omitempty,is-notification-type"`
	Category   models.NotificationCategory  `json:"category" validate:"required,is-notification-category"`
	ActionURL  string                       `json:"action_url" validate:"omitempty,url"`
	ActionText string                       `json:"action_text" validate:"omitempty,max=50"`
	ImageURL   string                       `json:"image_url" validate:"omitempty,url"`
	SendEmail  bool                         `json:"send_email"`
	SendPush   bool                         `json:"send_push"`
	Metadata   *models.NotificationMetadata `json:"metadata,omitempty"`
	ExpiresAt  *time.Time                   `json:"expires_at,omitempty"`
}

type CreateNotificationRequest struct {
	UserID string `json:"user_id" validate:"required"`
	NotificationContent
}

type BulkNotificationRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,max=1000,dive,required"`
	NotificationContent
}

type NotificationListQuery struct {
	UnreadOnly bool                        `form:"unread_only"`
	Category   models.NotificationCategory `form:"category" validate:"omitempty,is-notification-category"`
	Page       int                         `form:"page" validate:"omitempty,min=1"`
	Limit      int                         `form:"limit" validate:"omitempty,min=1"`
}

// ---------------- Responses ----------------

type NotificationListResponse struct {
	Notifications []models.Notification
	UnreadCount   int64
	Pagination    Pagination
}
