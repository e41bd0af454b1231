package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capturedLogger(buf *bytes.Buffer) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(buf, nil))}
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogBookingCreated_EmitsRoutingFields(t *testing.T) {
	var buf bytes.Buffer
	l := capturedLogger(&buf)

	l.LogBookingCreated(context.Background(), "b-123", "3A8", "c-456")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "Booking Created", entry["msg"])
	assert.Equal(t, "b-123", entry["booking_id"])
	assert.Equal(t, "3A8", entry["area_code"])
	assert.Equal(t, "c-456", entry["customer_id"])
}

func TestLogBookingCancelled_EmitsRefund(t *testing.T) {
	var buf bytes.Buffer
	l := capturedLogger(&buf)

	l.LogBookingCancelled(context.Background(), "b-123", "c-456", 120.50)

	entry := lastEntry(t, &buf)
	assert.Equal(t, "Booking Cancelled", entry["msg"])
	assert.Equal(t, "b-123", entry["booking_id"])
	assert.InDelta(t, 120.50, entry["refund_amount"], 0.001)
}

func TestLogTerritoryAssigned_EmitsProtectionStatus(t *testing.T) {
	var buf bytes.Buffer
	l := capturedLogger(&buf)

	l.LogTerritoryAssigned(context.Background(), "2T6", "f-789", "protected")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "Territory Assigned", entry["msg"])
	assert.Equal(t, "2T6", entry["area_code"])
	assert.Equal(t, "f-789", entry["franchisee_id"])
	assert.Equal(t, "protected", entry["protection_status"])
}

func TestAuthHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := capturedLogger(&buf)

	l.LogAuthFailure(context.Background(), "invalid credentials", "10.0.0.1")

	entry := lastEntry(t, &buf)
	assert.Equal(t, "Authentication Failure", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "invalid credentials", entry["reason"])

	buf.Reset()
	l.LogAuthSuccess(context.Background(), "u-1", "password")
	entry = lastEntry(t, &buf)
	assert.Equal(t, "Authentication Success", entry["msg"])
	assert.Equal(t, "password", entry["method"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}
