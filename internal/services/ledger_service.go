package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fuelcard/backend/internal/audit"
	"github.com/fuelcard/backend/internal/metrics"
	"github.com/fuelcard/backend/internal/models"
)

const (
	maxCardNameLength = 100
	litersPrecision   = 3
)

// LedgerService owns every balance mutation and ledger query. It keeps no
// state between calls; each operation re-reads the card from storage.
type LedgerService struct {
	db      *sql.DB
	audit   *audit.AuditLogger
	metrics *metrics.LedgerMetrics
	logger  zerolog.Logger
}

func NewLedgerService(db *sql.DB, auditLogger *audit.AuditLogger, ledgerMetrics *metrics.LedgerMetrics, logger zerolog.Logger) *LedgerService {
	return &LedgerService{
		db:      db,
		audit:   auditLogger,
		metrics: ledgerMetrics,
		logger:  logger.With().Str("component", "ledger").Logger(),
	}
}

// Ping reports whether storage is reachable.
func (s *LedgerService) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *LedgerService) ListCards(ctx context.Context) (cards []models.Card, err error) {
	defer s.observe("list_cards", time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `SELECT card_id, card_name, balance FROM cards ORDER BY card_id`)
	if err != nil {
		return nil, s.storageFailure("list cards", 0, err)
	}
	defer rows.Close()

	cards = []models.Card{}
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(&card.ID, &card.Name, &card.Balance); err != nil {
			return nil, s.storageFailure("scan card", 0, err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageFailure("iterate cards", 0, err)
	}
	return cards, nil
}

func (s *LedgerService) GetCardInfo(ctx context.Context, cardID int64) (card *models.Card, err error) {
	defer s.observe("card_info", time.Now(), &err)

	if err := validateCardID(cardID); err != nil {
		return nil, err
	}

	card, err = s.findCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrCardNotFound
	}
	return card, nil
}

// TopUp adds amount to the card balance and records a topup transaction
// carrying the resulting balance. Both writes share one database transaction.
func (s *LedgerService) TopUp(ctx context.Context, cardID int64, amount decimal.Decimal) (balance decimal.Decimal, err error) {
	defer s.observe("topup", time.Now(), &err)

	if err := validateCardID(cardID); err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, invalidArgument("Valid amount is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, s.storageFailure("begin topup", cardID, err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		UPDATE cards SET balance = balance + $1
		WHERE card_id = $2
		RETURNING balance`,
		amount, cardID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ErrCardNotFound
	}
	if err != nil {
		return decimal.Zero, s.mutationFailure(audit.EventTopUp, "increment balance", cardID, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (card_id, transaction_type, amount, new_balance)
		VALUES ($1, $2, $3, $4)`,
		cardID, string(models.TransactionTypeTopUp), amount, balance); err != nil {
		return decimal.Zero, s.mutationFailure(audit.EventTopUp, "record topup", cardID, err)
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, s.mutationFailure(audit.EventTopUp, "commit topup", cardID, err)
	}

	s.audit.LogMutation(audit.EventTopUp, cardID, amount, balance, nil)
	return balance, nil
}

// Spend deducts amount from the card and records a spend transaction with the
// fuel price and the liters it bought. The decrement is conditional on the
// balance still covering the amount, so concurrent spends cannot overdraw.
func (s *LedgerService) Spend(ctx context.Context, cardID int64, amount decimal.Decimal, fuelPrice decimal.NullDecimal) (result *models.SpendResult, err error) {
	defer s.observe("spend", time.Now(), &err)

	if err := validateCardID(cardID); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, invalidArgument("Valid amount is required")
	}
	if !fuelPrice.Valid || !fuelPrice.Decimal.IsPositive() {
		return nil, invalidArgument("Valid fuel price is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, s.storageFailure("begin spend", cardID, err)
	}
	defer tx.Rollback()

	var current decimal.Decimal
	err = tx.QueryRowContext(ctx, `SELECT balance FROM cards WHERE card_id = $1`, cardID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	if err != nil {
		return nil, s.storageFailure("read balance", cardID, err)
	}
	if current.LessThan(amount) {
		return nil, ErrInsufficientBalance
	}

	liters := amount.DivRound(fuelPrice.Decimal, litersPrecision)

	var remaining decimal.Decimal
	err = tx.QueryRowContext(ctx, `
		UPDATE cards SET balance = balance - $1
		WHERE card_id = $2 AND balance >= $1
		RETURNING balance`,
		amount, cardID).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		// Another spend drained the card between the read and the update.
		return nil, ErrInsufficientBalance
	}
	if err != nil {
		return nil, s.mutationFailure(audit.EventSpend, "decrement balance", cardID, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (card_id, transaction_type, amount, new_balance, fuel_price, liters)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		cardID, string(models.TransactionTypeSpend), amount, remaining, fuelPrice.Decimal, liters); err != nil {
		return nil, s.mutationFailure(audit.EventSpend, "record spend", cardID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, s.mutationFailure(audit.EventSpend, "commit spend", cardID, err)
	}

	s.audit.LogMutation(audit.EventSpend, cardID, amount, remaining, map[string]string{
		"fuel_price": fuelPrice.Decimal.String(),
		"liters":     liters.String(),
	})
	return &models.SpendResult{RemainingBalance: remaining, Liters: liters}, nil
}

// ListTransactions returns the card's ledger, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, cardID int64) (transactions []models.Transaction, err error) {
	defer s.observe("list_transactions", time.Now(), &err)

	if err := validateCardID(cardID); err != nil {
		return nil, err
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM cards WHERE card_id = $1)`, cardID).Scan(&exists); err != nil {
		return nil, s.storageFailure("check card", cardID, err)
	}
	if !exists {
		return nil, ErrCardNotFound
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, card_id, transaction_type, amount, new_balance, fuel_price, liters, transaction_date
		FROM transactions
		WHERE card_id = $1
		ORDER BY transaction_date DESC, transaction_id DESC`,
		cardID)
	if err != nil {
		return nil, s.storageFailure("list transactions", cardID, err)
	}
	defer rows.Close()

	transactions = []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.CardID, &t.Type, &t.Amount, &t.NewBalance, &t.FuelPrice, &t.Liters, &t.Date); err != nil {
			return nil, s.storageFailure("scan transaction", cardID, err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageFailure("iterate transactions", cardID, err)
	}
	return transactions, nil
}

// LatestFuelPrice returns the fuel price of the card's most recent spend.
func (s *LedgerService) LatestFuelPrice(ctx context.Context, cardID int64) (price decimal.Decimal, err error) {
	defer s.observe("latest_fuel_price", time.Now(), &err)

	if err := validateCardID(cardID); err != nil {
		return decimal.Zero, err
	}

	var fuelPrice decimal.NullDecimal
	err = s.db.QueryRowContext(ctx, `
		SELECT fuel_price
		FROM transactions
		WHERE card_id = $1 AND transaction_type = $2
		ORDER BY transaction_date DESC, transaction_id DESC
		LIMIT 1`,
		cardID, string(models.TransactionTypeSpend)).Scan(&fuelPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ErrFuelPriceNotFound
	}
	if err != nil {
		return decimal.Zero, s.storageFailure("latest fuel price", cardID, err)
	}
	if !fuelPrice.Valid {
		return decimal.Zero, ErrFuelPriceNotFound
	}
	return fuelPrice.Decimal, nil
}

// AddCard creates a card with exactly the given opening balance. The name is
// stored trimmed and its length is counted in characters.
func (s *LedgerService) AddCard(ctx context.Context, name string, balance decimal.Decimal) (card *models.Card, err error) {
	defer s.observe("add_card", time.Now(), &err)

	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxCardNameLength {
		return nil, invalidArgument("Invalid name or balance")
	}
	if balance.IsNegative() {
		return nil, invalidArgument("Invalid name or balance")
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO cards (card_name, balance)
		VALUES ($1, $2)
		RETURNING card_id`,
		name, balance).Scan(&id)
	if err != nil {
		return nil, s.storageFailure("insert card", 0, err)
	}

	s.audit.LogCard(audit.EventCardCreated, id, &balance)
	return &models.Card{ID: id, Name: name, Balance: balance}, nil
}

// DeleteCard removes the card row. Its transactions stay in the ledger.
func (s *LedgerService) DeleteCard(ctx context.Context, cardID int64) (err error) {
	defer s.observe("delete_card", time.Now(), &err)

	if err := validateCardID(cardID); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE card_id = $1`, cardID)
	if err != nil {
		return s.storageFailure("delete card", cardID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return s.storageFailure("delete card", cardID, err)
	}
	if affected == 0 {
		return ErrCardNotFound
	}

	s.audit.LogCard(audit.EventCardDeleted, cardID, nil)
	return nil
}

// Summary totals spend amount and liters for the card, optionally bounded by
// inclusive start and end times. A card that no longer exists yields zero
// totals and a nil CardInfo rather than an error.
func (s *LedgerService) Summary(ctx context.Context, cardID int64, start, end *time.Time) (summary *models.CardSummary, err error) {
	defer s.observe("summary", time.Now(), &err)

	if err := validateCardID(cardID); err != nil {
		return nil, err
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, invalidArgument("start must not be after end")
	}

	conditions := []string{"card_id = $1", "transaction_type = $2"}
	args := []any{cardID, string(models.TransactionTypeSpend)}
	if start != nil {
		args = append(args, *start)
		conditions = append(conditions, fmt.Sprintf("transaction_date >= $%d", len(args)))
	}
	if end != nil {
		args = append(args, *end)
		conditions = append(conditions, fmt.Sprintf("transaction_date <= $%d", len(args)))
	}

	query := `SELECT COALESCE(SUM(amount), 0), COALESCE(SUM(liters), 0) FROM transactions WHERE ` +
		strings.Join(conditions, " AND ")

	summary = &models.CardSummary{}
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&summary.TotalSpent, &summary.TotalLiters); err != nil {
		return nil, s.storageFailure("summarize spend", cardID, err)
	}

	summary.CardInfo, err = s.findCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// findCard returns nil, nil when the card does not exist.
func (s *LedgerService) findCard(ctx context.Context, cardID int64) (*models.Card, error) {
	var card models.Card
	err := s.db.QueryRowContext(ctx, `SELECT card_id, card_name, balance FROM cards WHERE card_id = $1`, cardID).
		Scan(&card.ID, &card.Name, &card.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.storageFailure("read card", cardID, err)
	}
	return &card, nil
}

func validateCardID(cardID int64) error {
	if cardID <= 0 {
		return invalidArgument("Invalid card ID")
	}
	return nil
}

func (s *LedgerService) storageFailure(op string, cardID int64, err error) error {
	s.logger.Error().Err(err).Str("op", op).Int64("card_id", cardID).Msg("storage failure")
	return &LedgerError{Kind: KindStorage, Message: "Database error", Err: fmt.Errorf("%s: %w", op, err)}
}

func (s *LedgerService) mutationFailure(eventType, op string, cardID int64, err error) error {
	s.audit.LogError(eventType, cardID, err)
	return s.storageFailure(op, cardID, err)
}

func (s *LedgerService) observe(operation string, start time.Time, errp *error) {
	s.metrics.Observe(operation, outcome(*errp), time.Since(start))
}
