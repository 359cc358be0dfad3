package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
	return rec
}

func TestContextLoggerCarriesRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	setup(&buf, "test")
	t.Cleanup(func() { Init("test") })

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "user-1")
	CtxInfo(ctx, "Event created", "event_id", "e-1")

	rec := lastRecord(t, &buf)
	assert.Equal(t, "Event created", rec["msg"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "user-1", rec["user_id"])
	assert.Equal(t, "e-1", rec["event_id"])

	CtxWithError(context.Background(), "Seat update failed", errors.New("row not found"))

	rec = lastRecord(t, &buf)
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "row not found", rec["error"])
	assert.NotContains(t, rec, "request_id")
}

func TestDevelopmentLogsDebugAsText(t *testing.T) {
	var buf bytes.Buffer
	setup(&buf, "development")
	t.Cleanup(func() { Init("test") })

	FromContext(context.Background()).Debug("cache warm")

	assert.Contains(t, buf.String(), "msg=\"cache warm\"")
}
