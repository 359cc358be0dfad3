package services

import (
	"eventix_backend/internal/email"
	"eventix_backend/internal/push"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService          AuthService
	UserService          UserService
	EventService         EventService
	AnalyticsService     AnalyticsService
	NotificationService  NotificationService
	ConfigurationService ConfigurationService
	EmailProvider        email.Provider
	PushSender           push.Sender
}
