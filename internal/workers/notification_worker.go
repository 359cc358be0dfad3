package workers

import (
	"context"
	"time"

	"eventix_backend/internal/logger"
)

// DefaultCleanupInterval is how often expired notifications are swept.
const DefaultCleanupInterval = time.Hour

// ExpiredNotificationCleaner removes notifications past their expiry.
type ExpiredNotificationCleaner interface {
	CleanupExpiredNotifications(ctx context.Context) (int64, error)
}

type NotificationWorker struct {
	cleaner  ExpiredNotificationCleaner
	interval time.Duration
}

func NewNotificationWorker(cleaner ExpiredNotificationCleaner, interval time.Duration) *NotificationWorker {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &NotificationWorker{cleaner: cleaner, interval: interval}
}

// Start runs the cleanup loop in the background until ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) {
	go w.cleanupExpired(ctx)
}

// cleanupExpired backs up the TTL index, whose monitor runs only once a minute
// and can fall behind.
func (w *NotificationWorker) cleanupExpired(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		case <-ticker.C:
			count, err := w.cleaner.CleanupExpiredNotifications(ctx)
			if err != nil {
				logger.CtxWithError(ctx, "Error removing expired notifications", err)
			} else if count > 0 {
				logger.CtxInfo(ctx, "Worker removed expired notifications", "count", count)
			}
		}
	}
}
