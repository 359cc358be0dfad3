package models

type EventType string
type EventStatus string
type SeatStatus string
type UserStatus string
type UserRole string
type NotificationType string
type NotificationCategory string
type ConfigCategory string
type AnalyticsPeriod string

const (
	EventTypeCinema     EventType = "cinema"
	EventTypeConcert    EventType = "concert"
	EventTypeTransport  EventType = "transport"
	EventTypeTheater    EventType = "theater"
	EventTypeSports     EventType = "sports"
	EventTypeConference EventType = "conference"

	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusSoldOut   EventStatus = "sold_out"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"

	SeatStatusAvailable   SeatStatus = "available"
	SeatStatusOccupied    SeatStatus = "occupied"
	SeatStatusMaintenance SeatStatus = "maintenance"
	SeatStatusReserved    SeatStatus = "reserved"

	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleAdmin     UserRole = "admin"
	UserRoleOrganizer UserRole = "organizer"
	UserRoleCustomer  UserRole = "customer"

	NotificationTypeInfo      NotificationType = "info"
	NotificationTypeSuccess   NotificationType = "success"
	NotificationTypeWarning   NotificationType = "warning"
	NotificationTypeError     NotificationType = "error"
	NotificationTypePromotion NotificationType = "promotion"

	NotificationCategoryTicket    NotificationCategory = "ticket"
	NotificationCategoryPayment   NotificationCategory = "payment"
	NotificationCategoryEvent     NotificationCategory = "event"
	NotificationCategorySystem    NotificationCategory = "system"
	NotificationCategoryPromotion NotificationCategory = "promotion"
	NotificationCategoryReminder  NotificationCategory = "reminder"

	ConfigCategoryPayment      ConfigCategory = "payment"
	ConfigCategoryEmail        ConfigCategory = "email"
	ConfigCategoryNotification ConfigCategory = "notification"
	ConfigCategorySystem       ConfigCategory = "system"
	ConfigCategoryUI           ConfigCategory = "ui"
	ConfigCategorySecurity     ConfigCategory = "security"

	PeriodHour  AnalyticsPeriod = "hour"
	PeriodDay   AnalyticsPeriod = "day"
	PeriodWeek  AnalyticsPeriod = "week"
	PeriodMonth AnalyticsPeriod = "month"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventTypeCinema, EventTypeConcert, EventTypeTransport,
		EventTypeTheater, EventTypeSports, EventTypeConference:
		return true
	}
	return false
}

func (s EventStatus) IsValid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusSoldOut,
		EventStatusCancelled, EventStatusCompleted:
		return true
	}
	return false
}

func (s SeatStatus) IsValid() bool {
	switch s {
	case SeatStatusAvailable, SeatStatusOccupied, SeatStatusMaintenance, SeatStatusReserved:
		return true
	}
	return false
}

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleOrganizer, UserRoleCustomer:
		return true
	}
	return false
}

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning,
		NotificationTypeError, NotificationTypePromotion:
		return true
	}
	return false
}

func (c NotificationCategory) IsValid() bool {
	switch c {
	case NotificationCategoryTicket, NotificationCategoryPayment, NotificationCategoryEvent,
		NotificationCategorySystem, NotificationCategoryPromotion, NotificationCategoryReminder:
		return true
	}
	return false
}

func (c ConfigCategory) IsValid() bool {
	switch c {
	case ConfigCategoryPayment, ConfigCategoryEmail, ConfigCategoryNotification,
		ConfigCategorySystem, ConfigCategoryUI, ConfigCategorySecurity:
		return true
	}
	return false
}
