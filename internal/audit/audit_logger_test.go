package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuditLogger(buf *bytes.Buffer) *AuditLogger {
	a := NewAuditLogger(zerolog.New(buf))
	a.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return a
}

func TestAuditLogger_LogMutation(t *testing.T) {
	var buf bytes.Buffer
	a := newTestAuditLogger(&buf)

	a.LogMutation(EventSpend, 1, decimal.RequireFromString("30"), decimal.RequireFromString("120"),
		map[string]string{"liters": "20"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "AUDIT", entry["message"])
	assert.Equal(t, "audit", entry["component"])
	assert.Equal(t, EventSpend, entry["event_type"])
	assert.Equal(t, float64(1), entry["card_id"])
	assert.Equal(t, "30", entry["amount"])
	assert.Equal(t, "120", entry["balance"])
	assert.Equal(t, "20", entry["liters"])
	assert.Equal(t, StatusSuccess, entry["status"])
	assert.NotEmpty(t, entry["event_id"])
	assert.Equal(t, "2025-01-02T03:04:05Z", entry["event_time"])
}

func TestAuditEvent_FieldNames(t *testing.T) {
	var buf bytes.Buffer
	balance := decimal.RequireFromString("75.5")

	logger := zerolog.New(&buf)
	logger.Info().EmbedObject(AuditEvent{
		EventID:   "evt-1",
		EventType: EventCardCreated,
		CardID:    9,
		Balance:   &balance,
		Status:    StatusSuccess,
	}).Send()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "evt-1", entry["event_id"])
	assert.Equal(t, EventCardCreated, entry["event_type"])
	assert.Equal(t, float64(9), entry["card_id"])
	assert.Equal(t, "75.5", entry["balance"])
	assert.NotContains(t, entry, "amount")
	assert.NotContains(t, entry, "details")
	assert.NotContains(t, entry, "timestamp")
}

func TestAuditLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	a := newTestAuditLogger(&buf)

	a.LogError(EventTopUp, 4, errors.New("connection reset"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, StatusFailed, entry["status"])
	assert.Equal(t, "connection reset", entry["error"])
	assert.NotContains(t, entry, "amount")
}

func TestAuditLogger_NilSafe(t *testing.T) {
	var a *AuditLogger
	assert.NotPanics(t, func() {
		a.LogCard(EventCardDeleted, 1, nil)
	})
}
