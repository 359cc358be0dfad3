package handlers_test

import (
	"context"
	"time"

	"eventix_backend/internal/models"
	"eventix_backend/internal/repositories"
	"eventix_backend/internal/services"
	"eventix_backend/internal/services/dto"
	"eventix_backend/pkg/apperrors"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	adminToken    = "admin-token"
	customerToken = "customer-token"
	adminID       = "11111111-1111-1111-1111-111111111111"
	customerID    = "22222222-2222-2222-2222-222222222222"
)

// --- Auth ---

// mockAuthService resolves the two fixed tokens itself; Register and Login
// go through the mock.
type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*dto.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) Authenticate(_ context.Context, token string) (*models.User, error) {
	switch token {
	case adminToken:
		return &models.User{
			BaseModel: models.BaseModel{ID: adminID},
			Status:    models.UserStatusActive,
			Roles:     []models.Role{{Name: models.UserRoleAdmin}},
		}, nil
	case customerToken:
		return &models.User{
			BaseModel: models.BaseModel{ID: customerID},
			Status:    models.UserStatusActive,
			Roles:     []models.Role{{Name: models.UserRoleCustomer}},
		}, nil
	}
	return nil, apperrors.ErrInvalidToken
}

// --- Users ---

type mockUserService struct{ mock.Mock }

func (m *mockUserService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).(*dto.UserResponse)
	return resp, args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*dto.UserResponse)
	return resp, args.Error(1)
}

func (m *mockUserService) ListUsers(ctx context.Context, query *dto.UserListQuery) ([]*dto.UserResponse, dto.Pagination, error) {
	args := m.Called(ctx, query)
	users, _ := args.Get(0).([]*dto.UserResponse)
	return users, args.Get(1).(dto.Pagination), args.Error(2)
}

func (m *mockUserService) DeleteUser(ctx context.Context, actorID, userID string) error {
	return m.Called(ctx, actorID, userID).Error(0)
}

// --- Events ---

type mockEventService struct{ mock.Mock }

func (m *mockEventService) CreateEvent(ctx context.Context, req *dto.EventRequest, ownerID string) (*models.Event, error) {
	args := m.Called(ctx, req, ownerID)
	event, _ := args.Get(0).(*models.Event)
	return event, args.Error(1)
}

func (m *mockEventService) GetEvents(ctx context.Context, query *dto.EventListQuery) (*dto.EventListResponse, error) {
	args := m.Called(ctx, query)
	resp, _ := args.Get(0).(*dto.EventListResponse)
	return resp, args.Error(1)
}

func (m *mockEventService) GetEventByIDOrSlug(ctx context.Context, identifier string) (*models.Event, error) {
	args := m.Called(ctx, identifier)
	event, _ := args.Get(0).(*models.Event)
	return event, args.Error(1)
}

func (m *mockEventService) UpdateEvent(ctx context.Context, id string, req *dto.EventRequest) (*models.Event, error) {
	args := m.Called(ctx, id, req)
	event, _ := args.Get(0).(*models.Event)
	return event, args.Error(1)
}

func (m *mockEventService) DeleteEvent(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEventService) UpdateSeatAvailability(ctx context.Context, id string, req *dto.SeatUpdateRequest) (*models.Event, error) {
	args := m.Called(ctx, id, req)
	event, _ := args.Get(0).(*models.Event)
	return event, args.Error(1)
}

func (m *mockEventService) SearchEvents(ctx context.Context, req *dto.SearchEventsRequest) ([]repositories.EventSearchHit, dto.Pagination, error) {
	args := m.Called(ctx, req)
	hits, _ := args.Get(0).([]repositories.EventSearchHit)
	return hits, args.Get(1).(dto.Pagination), args.Error(2)
}

func (m *mockEventService) GetEventAnalytics(ctx context.Context, id string, from, to *time.Time) (*dto.DashboardMetrics, error) {
	args := m.Called(ctx, id, from, to)
	metrics, _ := args.Get(0).(*dto.DashboardMetrics)
	return metrics, args.Error(1)
}

// --- Analytics ---

type mockAnalyticsService struct {
	mock.Mock
	detailViews chan primitive.ObjectID
}

func newMockAnalyticsService() *mockAnalyticsService {
	return &mockAnalyticsService{detailViews: make(chan primitive.ObjectID, 1)}
}

func (m *mockAnalyticsService) RecordPageView(ctx context.Context, eventID primitive.ObjectID, userAgent, ip string) {
	m.Called(ctx, eventID, userAgent, ip)
}

// RecordDetailView runs on its own goroutine, so it reports over a channel.
func (m *mockAnalyticsService) RecordDetailView(_ context.Context, eventID primitive.ObjectID, _, _ string) {
	m.detailViews <- eventID
}

func (m *mockAnalyticsService) RecordTicketPurchase(ctx context.Context, eventID primitive.ObjectID, quantity int, amount float64) {
	m.Called(ctx, eventID, quantity, amount)
}

func (m *mockAnalyticsService) RecordRefund(ctx context.Context, eventID primitive.ObjectID, quantity int, amount float64) {
	m.Called(ctx, eventID, quantity, amount)
}

func (m *mockAnalyticsService) GetDashboardMetrics(ctx context.Context, eventID *primitive.ObjectID, from, to *time.Time) (*dto.DashboardMetrics, error) {
	args := m.Called(ctx, eventID, from, to)
	metrics, _ := args.Get(0).(*dto.DashboardMetrics)
	return metrics, args.Error(1)
}

func (m *mockAnalyticsService) GetTopEvents(ctx context.Context, limit int, metric string) ([]repositories.TopEvent, error) {
	args := m.Called(ctx, limit, metric)
	top, _ := args.Get(0).([]repositories.TopEvent)
	return top, args.Error(1)
}

func (m *mockAnalyticsService) GenerateWeeklyReport(ctx context.Context, eventID string) (*dto.WeeklyReport, error) {
	args := m.Called(ctx, eventID)
	report, _ := args.Get(0).(*dto.WeeklyReport)
	return report, args.Error(1)
}

func (m *mockAnalyticsService) InitializeEventAnalytics(ctx context.Context, eventID primitive.ObjectID) error {
	return m.Called(ctx, eventID).Error(0)
}

// --- Notifications ---

type mockNotificationService struct{ mock.Mock }

func (m *mockNotificationService) CreateNotification(ctx context.Context, req *dto.CreateNotificationRequest) (*models.Notification, error) {
	args := m.Called(ctx, req)
	n, _ := args.Get(0).(*models.Notification)
	return n, args.Error(1)
}

func (m *mockNotificationService) GetUserNotifications(ctx context.Context, userID string, query *dto.NotificationListQuery) (*dto.NotificationListResponse, error) {
	args := m.Called(ctx, userID, query)
	resp, _ := args.Get(0).(*dto.NotificationListResponse)
	return resp, args.Error(1)
}

func (m *mockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID string) (*models.Notification, error) {
	args := m.Called(ctx, userID, notificationID)
	n, _ := args.Get(0).(*models.Notification)
	return n, args.Error(1)
}

func (m *mockNotificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationService) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *mockNotificationService) SendBulkNotifications(ctx context.Context, req *dto.BulkNotificationRequest) ([]*models.Notification, error) {
	args := m.Called(ctx, req)
	ns, _ := args.Get(0).([]*models.Notification)
	return ns, args.Error(1)
}

func (m *mockNotificationService) CleanupExpiredNotifications(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// --- Configurations ---

type mockConfigurationService struct{ mock.Mock }

func (m *mockConfigurationService) Get(ctx context.Context, key string) (interface{}, error) {
	args := m.Called(ctx, key)
	return args.Get(0), args.Error(1)
}

func (m *mockConfigurationService) Set(ctx context.Context, key string, req *dto.SetConfigurationRequest, userID string) (*models.Configuration, error) {
	args := m.Called(ctx, key, req, userID)
	cfg, _ := args.Get(0).(*models.Configuration)
	return cfg, args.Error(1)
}

func (m *mockConfigurationService) GetByCategory(ctx context.Context, category models.ConfigCategory) ([]models.Configuration, error) {
	args := m.Called(ctx, category)
	cfgs, _ := args.Get(0).([]models.Configuration)
	return cfgs, args.Error(1)
}

func (m *mockConfigurationService) GetPublic(ctx context.Context) (map[string]interface{}, error) {
	args := m.Called(ctx)
	values, _ := args.Get(0).(map[string]interface{})
	return values, args.Error(1)
}

func (m *mockConfigurationService) GetAll(ctx context.Context) ([]models.Configuration, error) {
	args := m.Called(ctx)
	cfgs, _ := args.Get(0).([]models.Configuration)
	return cfgs, args.Error(1)
}

func (m *mockConfigurationService) InitializeDefaults(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

var (
	_ services.AuthService          = (*mockAuthService)(nil)
	_ services.UserService          = (*mockUserService)(nil)
	_ services.EventService         = (*mockEventService)(nil)
	_ services.AnalyticsService     = (*mockAnalyticsService)(nil)
	_ services.NotificationService  = (*mockNotificationService)(nil)
	_ services.ConfigurationService = (*mockConfigurationService)(nil)
)
