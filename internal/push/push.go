package push

import (
	"context"
	"errors"

	"eventix_backend/internal/logger"
)

// Message is a push notification addressed to one user.
type Message struct {
	UserID   string
	Title    string
	Body     string
	ImageURL string
	Data     map[string]string
}

// Sender delivers push notifications.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// LogSender logs messages instead of delivering them. No device registry
// exists yet, so it is the only sender wired in.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, msg *Message) error {
	if msg.UserID == "" {
		return errors.New("push: user id is required")
	}
	logger.CtxInfo(ctx, "Push notification (log only)",
		"user_id", msg.UserID,
		"title", msg.Title,
	)
	return nil
}
