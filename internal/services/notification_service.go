package services

import (
	"context"
	"errors"
	"time"

	"eventix_backend/internal/email"
	"eventix_backend/internal/logger"
	"eventix_backend/internal/models"
	"eventix_backend/internal/push"
	"eventix_backend/internal/repositories"
	"eventix_backend/internal/services/dto"
	"eventix_backend/pkg/apperrors"

	"golang.org/x/sync/errgroup"
)

// bulkDispatchConcurrency bounds the parallel deliveries of one bulk send.
const bulkDispatchConcurrency = 10

type NotificationService interface {
	CreateNotification(ctx context.Context, req *dto.CreateNotificationRequest) (*models.Notification, error)
	GetUserNotifications(ctx context.Context, userID string, query *dto.NotificationListQuery) (*dto.NotificationListResponse, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) (*models.Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
	DeleteNotification(ctx context.Context, userID, notificationID string) error
	SendBulkNotifications(ctx context.Context, req *dto.BulkNotificationRequest) ([]*models.Notification, error)
	CleanupExpiredNotifications(ctx context.Context) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	emailProvider    email.Provider
	pushSender       push.Sender
	now              func() time.Time
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	emailProvider email.Provider,
	pushSender push.Sender,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailProvider:    emailProvider,
		pushSender:       pushSender,
		now:              time.Now,
	}
}

func notificationRepoError(err error) error {
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.ErrNotFound(err, "notification", "Notification not found")
	}
	return apperrors.DatabaseError(err)
}

func (s *notificationService) newNotification(userID string, c *dto.NotificationContent) *models.Notification {
	n := &models.Notification{
		UserID:     userID,
		Title:      c.Title,
		Message:    c.Message,
		Type:       c.Type,
		Category:   c.Category,
		ActionURL:  c.ActionURL,
		ActionText: c.ActionText,
		ImageURL:   c.ImageURL,
		Metadata:   c.Metadata,
		ExpiresAt:  c.ExpiresAt,
		CreatedAt:  s.now().UTC(),
	}
	if n.Type == "" {
		n.Type = models.NotificationTypeInfo
	}
	return n
}

// ---------------- Create ----------------

func (s *notificationService) CreateNotification(ctx context.Context, req *dto.CreateNotificationRequest) (*models.Notification, error) {
	n := s.newNotification(req.UserID, &req.NotificationContent)
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	if req.SendEmail {
		s.dispatchEmail(ctx, n)
	}
	if req.SendPush {
		s.dispatchPush(ctx, n)
	}
	return n, nil
}

// SendBulkNotifications stores one notification per user, then delivers the
// requested channels in parallel. Delivery failures are only logged.
func (s *notificationService) SendBulkNotifications(ctx context.Context, req *dto.BulkNotificationRequest) ([]*models.Notification, error) {
	ns := make([]*models.Notification, 0, len(req.UserIDs))
	for _, userID := range req.UserIDs {
		ns = append(ns, s.newNotification(userID, &req.NotificationContent))
	}
	if err := s.notificationRepo.CreateMany(ctx, ns); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	if req.SendEmail || req.SendPush {
		var g errgroup.Group
		g.SetLimit(bulkDispatchConcurrency)
		for _, n := range ns {
			g.Go(func() error {
				if req.SendEmail {
					s.dispatchEmail(ctx, n)
				}
				if req.SendPush {
					s.dispatchPush(ctx, n)
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	logger.CtxInfo(ctx, "Bulk notifications sent", "count", len(ns))
	return ns, nil
}

// dispatchEmail resolves the recipient's address and sends the notification
// template. The notification is stamped only when delivery succeeds.
func (s *notificationService) dispatchEmail(ctx context.Context, n *models.Notification) {
	user, err := s.userRepo.FindByID(ctx, n.UserID)
	if err != nil {
		logger.CtxWithError(ctx, "Skipping notification email: recipient not resolved", err,
			"user_id", n.UserID,
			"notification_id", n.ID.Hex(),
		)
		return
	}

	data := email.TemplateData{
		"Title":      n.Title,
		"Message":    n.Message,
		"ActionURL":  n.ActionURL,
		"ActionText": n.ActionText,
	}
	if err := s.emailProvider.SendTemplate(ctx, []string{user.Email}, n.Title, email.TemplateNotification, data); err != nil {
		logger.CtxWithError(ctx, "Failed to send notification email", err, "notification_id", n.ID.Hex())
		return
	}

	at := s.now().UTC()
	if err := s.notificationRepo.MarkDispatched(ctx, n.ID, repositories.ChannelEmail, at); err != nil {
		logger.CtxWithError(ctx, "Failed to stamp notification email", err, "notification_id", n.ID.Hex())
		return
	}
	n.EmailSent = true
	n.EmailSentAt = &at
}

func (s *notificationService) dispatchPush(ctx context.Context, n *models.Notification) {
	msg := &push.Message{
		UserID:   n.UserID,
		Title:    n.Title,
		Body:     n.Message,
		ImageURL: n.ImageURL,
		Data: map[string]string{
			"notification_id": n.ID.Hex(),
			"category":        string(n.Category),
		},
	}
	if err := s.pushSender.Send(ctx, msg); err != nil {
		logger.CtxWithError(ctx, "Failed to send push notification", err, "notification_id", n.ID.Hex())
		return
	}

	at := s.now().UTC()
	if err := s.notificationRepo.MarkDispatched(ctx, n.ID, repositories.ChannelPush, at); err != nil {
		logger.CtxWithError(ctx, "Failed to stamp push notification", err, "notification_id", n.ID.Hex())
		return
	}
	n.PushSent = true
	n.PushSentAt = &at
}

// ---------------- Read / update ----------------

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string, query *dto.NotificationListQuery) (*dto.NotificationListResponse, error) {
	page, limit := repositories.NormalizePage(query.Page, query.Limit)

	ns, total, err := s.notificationRepo.FindByUser(ctx, repositories.NotificationFilter{
		UserID:     userID,
		UnreadOnly: query.UnreadOnly,
		Category:   query.Category,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	return &dto.NotificationListResponse{
		Notifications: ns,
		UnreadCount:   unread,
		Pagination:    dto.NewPagination(page, limit, total),
	}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) (*models.Notification, error) {
	oid, err := parseObjectID(notificationID, "notification", "Notification not found")
	if err != nil {
		return nil, err
	}
	n, err := s.notificationRepo.MarkAsRead(ctx, oid, userID, s.now().UTC())
	if err != nil {
		return nil, notificationRepoError(err)
	}
	return n, nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	count, err := s.notificationRepo.MarkAllAsRead(ctx, userID, s.now().UTC())
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	return count, nil
}

func (s *notificationService) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	oid, err := parseObjectID(notificationID, "notification", "Notification not found")
	if err != nil {
		return err
	}
	if err := s.notificationRepo.Delete(ctx, oid, userID); err != nil {
		return notificationRepoError(err)
	}
	return nil
}

// CleanupExpiredNotifications removes what the TTL monitor has not purged yet.
func (s *notificationService) CleanupExpiredNotifications(ctx context.Context) (int64, error) {
	count, err := s.notificationRepo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	if count > 0 {
		logger.CtxInfo(ctx, "Expired notifications removed", "count", count)
	}
	return count, nil
}
