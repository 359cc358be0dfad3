package logger

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// WithRequestID returns a ctx whose logger tags every record with request_id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withAttrs(ctx, "request_id", requestID)
}

// WithUserID returns a ctx whose logger tags every record with user_id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return withAttrs(ctx, "user_id", userID)
}

func withAttrs(ctx context.Context, args ...any) context.Context {
	return context.WithValue(ctx, loggerKey{}, FromContext(ctx).With(args...))
}

// FromContext returns the request-scoped logger, or the process logger when
// ctx carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return log
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).InfoContext(ctx, msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).WarnContext(ctx, msg, args...)
}

// CtxWithError logs msg at error level with err under "error".
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	FromContext(ctx).ErrorContext(ctx, msg, append([]any{"error", err.Error()}, args...)...)
}
