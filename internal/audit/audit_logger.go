package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTopUp       = "TOPUP"
	EventSpend       = "SPEND"
	EventCardCreated = "CARD_CREATED"
	EventCardDeleted = "CARD_DELETED"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// AuditEvent is written as flat fields of a zerolog entry.
type AuditEvent struct {
	EventID   string
	Timestamp time.Time
	EventType string
	CardID    int64
	Amount    *decimal.Decimal
	Balance   *decimal.Decimal
	Status    string
	Details   map[string]string
}

func (e AuditEvent) MarshalZerologObject(entry *zerolog.Event) {
	entry.Str("event_id", e.EventID).
		Time("event_time", e.Timestamp).
		Str("event_type", e.EventType).
		Int64("card_id", e.CardID).
		Str("status", e.Status)
	if e.Amount != nil {
		entry.Str("amount", e.Amount.String())
	}
	if e.Balance != nil {
		entry.Str("balance", e.Balance.String())
	}
	for k, v := range e.Details {
		entry.Str(k, v)
	}
}

// AuditLogger writes one structured line per ledger mutation.
type AuditLogger struct {
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuditLogger(logger zerolog.Logger) *AuditLogger {
	return &AuditLogger{
		logger: logger.With().Str("component", "audit").Logger(),
		now:    time.Now,
	}
}

// LogMutation records a successful balance change.
func (a *AuditLogger) LogMutation(eventType string, cardID int64, amount, balance decimal.Decimal, details map[string]string) {
	a.log(AuditEvent{
		EventType: eventType,
		CardID:    cardID,
		Amount:    &amount,
		Balance:   &balance,
		Status:    StatusSuccess,
		Details:   details,
	})
}

// LogCard records card creation or removal.
func (a *AuditLogger) LogCard(eventType string, cardID int64, balance *decimal.Decimal) {
	a.log(AuditEvent{
		EventType: eventType,
		CardID:    cardID,
		Balance:   balance,
		Status:    StatusSuccess,
	})
}

func (a *AuditLogger) LogError(eventType string, cardID int64, err error) {
	a.log(AuditEvent{
		EventType: eventType,
		CardID:    cardID,
		Status:    StatusFailed,
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *AuditLogger) log(event AuditEvent) {
	if a == nil {
		return
	}
	event.EventID = uuid.NewString()
	event.Timestamp = a.now().UTC()

	a.logger.Info().EmbedObject(event).Msg("AUDIT")
}
