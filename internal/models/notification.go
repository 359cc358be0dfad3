package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID     string               `bson:"user_id" json:"user_id"`
	Title      string               `bson:"title" json:"title"`
	Message    string               `bson:"message" json:"message"`
	Type       NotificationType     `bson:"type" json:"type"`
	Category   NotificationCategory `bson:"category" json:"category"`
	Read       bool                 `bson:"read" json:"read"`
	ReadAt     *time.Time           `bson:"read_at,omitempty" json:"read_at,omitempty"`
	ActionURL  string               `bson:"action_url,omitempty" json:"action_url,omitempty"`
	ActionText string               `bson:"action_text,omitempty" json:"action_text,omitempty"`
	ImageURL   string               `bson:"image_url,omitempty" json:"image_url,omitempty"`

	PushSent    bool       `bson:"push_sent" json:"push_sent"`
	PushSentAt  *time.Time `bson:"push_sent_at,omitempty" json:"push_sent_at,omitempty"`
	EmailSent   bool       `bson:"email_sent" json:"email_sent"`
	EmailSentAt *time.Time `bson:"email_sent_at,omitempty" json:"email_sent_at,omitempty"`

	Metadata  *NotificationMetadata `bson:"metadata,omitempty" json:"metadata,omitempty"`
	ExpiresAt *time.Time            `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	CreatedAt time.Time             `bson:"created_at" json:"created_at"`
}

type NotificationMetadata struct {
	EventID       string                 `bson:"event_id,omitempty" json:"event_id,omitempty"`
	TicketID      string                 `bson:"ticket_id,omitempty" json:"ticket_id,omitempty"`
	TransactionID string                 `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	CustomData    map[string]interface{} `bson:"custom_data,omitempty" json:"custom_data,omitempty"`
}
