package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/fuelcard/backend/internal/models"
	"github.com/fuelcard/backend/internal/services"
)

const maxBodyBytes = 1_048_576

type CardHandler struct {
	ledger    *services.LedgerService
	validator *services.ValidationHelper
	logger    zerolog.Logger
}

func NewCardHandler(ledger *services.LedgerService, logger zerolog.Logger) *CardHandler {
	return &CardHandler{
		ledger:    ledger,
		validator: services.NewValidationHelper(),
		logger:    logger.With().Str("component", "card_handler").Logger(),
	}
}

// ListCards returns every card
// @Summary List cards
// @Description List all fuel cards with their balances
// @Tags Cards
// @Produce json
// @Success 200 {array} models.Card
// @Failure 500 {object} services.ErrorResponse
// @Router / [get]
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.ledger.ListCards(r.Context())
	if err != nil {
		writeLedgerError(h.logger, w, r, err)
		return
	}
	services.SendJSONResponse(w, http.StatusOK, cards)
}

// GetCardInfo returns a single card
// @Summary Card info
// @Description Get card id, name and current balance
// @Tags Cards
// @Produce json
// @Param id path int true "Card ID"
// @Success 200 {object} models.Card
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /cards/{id}/info [get]
func (h *CardHandler) GetCardInfo(w http.ResponseWriter, r *http.Request) {
	cardID, ok := cardIDParam(w, r)
	if !ok {
		return
	}

	card, err := h.ledger.GetCardInfo(r.Context(), cardID)
	if err != nil {
		writeLedgerError(h.logger, w, r, err)
		return
	}
	services.SendJSONResponse(w, http.StatusOK, card)
}

// TopUp credits a card
// @Summary Top up card
// @Description Add a positive amount to the card balance and record a topup transaction
// @Tags Cards
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Param Idempotency-Key header string false "Deduplicates retried requests"
// @Param request body models.TopUpRequest true "Top-up request"
// @Success 200 {object} models.TopUpResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /cards/{id}/topup [post]
func (h *CardHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	cardID, ok := cardIDParam(w, r)
	if !ok {
		return
	}

	var req models.TopUpRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Valid amount is required", http.StatusBadRequest, err)
		return
	}

	balance, err := h.ledger.TopUp(r.Context(), cardID, req.Amount.Decimal)
	if err != nil {
		writeLedgerError(h.logger, w, r, err)
		return
	}

	services.SendJSONResponse(w, http.StatusOK, models.TopUpResponse{
		Message: fmt.Sprintf("Card %d topped up with %s", cardID, req.Amount.Decimal.String()),
		Balance: balance,
	})
}

// Spend debits a card for a fuel purchase
// @Summary Spend from card
// @Description Deduct an amount at the given fuel price and record the liters bought
// @Tags Cards
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Param Idempotency-Key header string false "Deduplicates retried requests"
// @Param request body models.SpendRequest true "Spend request"
// @Success 200 {object} models.SpendResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /cards/{id}/spend [post]
func (h *CardHandler) Spend(w http.ResponseWriter, r *http.Request) {
	cardID, ok := cardIDParam(w, r)
	if !ok {
		return
	}

	var req models.SpendRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Valid amount is required", http.StatusBadRequest, err)
		return
	}

	result, err := h.ledger.Spend(r.Context(), cardID, req.Amount.Decimal, req.FuelPrice)
	if err != nil {
		writeLedgerError(h.logger, w, r, err)
		return
	}

	services.SendJSONResponse(w, http.StatusOK, models.SpendResponse{
		Message:          fmt.Sprintf("Card %d spent %s", cardID, req.Amount.Decimal.String()),
		RemainingBalance: result.RemainingBalance,
		Liters:           result.Liters,
	})
}

// ListTransactions returns the card's ledger
// @Summary Transaction history
// @Description List all transactions of a card, newest first
// @Tags Cards
// @Produce json
// @Param id path int true "Card ID"
// @Success 200 {object} models.TransactionHistory
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /cards/{id}/transactions [get]
func (h *CardHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	cardID, ok := cardIDParam(w, r)
	if !ok {
		return
	}

	transactions, err := h.ledger.ListTransactions(r.Context(), cardID)
	if err != nil {
		writeLedgerError(h.logger, w, r, err)
		return
	}

	services.SendJSONResponse(w, http.StatusOK, models.TransactionHistory{
		CardID:       cardID,
		Transactions: transactions,
	})
}

// LatestFuelPrice returns the fuel price of the most recent spend
// @Summary Latest fuel price
// @Tags Cards
// @Produce json
// @Param id path int true "Card ID"
// @Success 200 {object} models.LatestFuelPriceResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /cards/{id}/latest-fuel-price [get]
func (h *CardHandler) LatestFuelPrice(w http.ResponseWriter, r *http.Request) {
	cardID, ok := cardIDParam(w, r)
	if !ok {
		return
	}

	price, err := h.ledger.LatestFuelPrice(r.Context(), cardID)
	if err != nil {
		writeLedgerError(h.logger, w, r, err)
		return
	}
	services.SendJSONResponse(w, http.StatusOK, models.LatestFuelPriceResponse{LatestFuelPrice: price})
}

// AddCard creates a card
// @Summary Add card
// @Description Create a card with a name and a non-negative opening balance
// @Tags Cards
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Deduplicates retried requests"
// @Param request body models.AddCardRequest true "New card"
// @Success 201 {object} models.CreatedCard
// @Failure 400 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /cards/add [post]
func (h *CardHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	var req models.AddCardRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Invalid name or balance", http.StatusBadRequest, err)
		return
	}

	card, err := h.ledger.AddCard(r.Context(), req.Name, req.Balance.Decimal)
	if err != nil {
		writeLedgerError(h.logger, w, r, err)
		return
	}

	services.SendJSONResponse(w, http.StatusCreated, models.CreatedCard{
		ID:      card.ID,
		Name:    card.Name,
		Balance: card.Balance,
	})
}

// DeleteCard removes a card
// @Summary Delete card
// @Description Delete the card row; its transactions are kept
// @Tags Cards
// @Produce json
// @Param id path int true "Card ID"
// @Param Idempotency-Key header string false "Deduplicates retried requests"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /cards/{id}/delete [delete]
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := cardIDParam(w, r)
	if !ok {
		return
	}

	if err := h.ledger.DeleteCard(r.Context(), cardID); err != nil {
		writeLedgerError(h.logger, w, r, err)
		return
	}
	services.SendJSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Card deleted successfully"})
}

// Summary totals spend for a card
// @Summary Spend summary
// @Description Total amount and liters spent, optionally between start and end (inclusive)
// @Tags Cards
// @Produce json
// @Param id path int true "Card ID"
// @Param start query string false "RFC 3339 timestamp or YYYY-MM-DD"
// @Param end query string false "RFC 3339 timestamp or YYYY-MM-DD"
// @Success 200 {object} models.CardSummary
// @Failure 400 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /cards/{id}/summary [get]
func (h *CardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	cardID, ok := cardIDParam(w, r)
	if !ok {
		return
	}

	start, err := parseDateBound(r.URL.Query().Get("start"), false)
	if err != nil {
		services.SendErrorResponse(w, "Invalid start date", http.StatusBadRequest, nil)
		return
	}
	end, err := parseDateBound(r.URL.Query().Get("end"), true)
	if err != nil {
		services.SendErrorResponse(w, "Invalid end date", http.StatusBadRequest, nil)
		return
	}

	summary, err := h.ledger.Summary(r.Context(), cardID, start, end)
	if err != nil {
		writeLedgerError(h.logger, w, r, err)
		return
	}
	services.SendJSONResponse(w, http.StatusOK, summary)
}

// writeLedgerError maps the ledger error kind to a status code. Only the
// public message reaches the client.
func writeLedgerError(logger zerolog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	services.SendErrorResponse(w, services.PublicMessage(err), status, nil)
}

func statusForError(err error) int {
	switch services.KindOf(err) {
	case services.KindInvalidArgument, services.KindInsufficientBalance:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// cardIDParam writes a 400 and returns false unless {id} is a positive integer.
func cardIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	cardID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || cardID <= 0 {
		services.SendErrorResponse(w, "Invalid card ID", http.StatusBadRequest, nil)
		return 0, false
	}
	return cardID, true
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}

const dateOnly = "2006-01-02"

// parseDateBound accepts RFC 3339 or a bare date. A bare end date covers the
// whole day.
func parseDateBound(value string, end bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateOnly, value)
	if err != nil {
		return nil, err
	}
	if end {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
