package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of balance change a ledger row records
type TransactionType string

const (
	TransactionTypeTopUp TransactionType = "topup"
	TransactionTypeSpend TransactionType = "spend"
)

// Transaction is an immutable ledger entry. FuelPrice and Liters are only
// set on spend rows.
type Transaction struct {
	ID         int64               `json:"transaction_id" db:"transaction_id"`
	CardID     int64               `json:"-" db:"card_id"`
	Type       TransactionType     `json:"transaction_type" db:"transaction_type"`
	Amount     decimal.Decimal     `json:"amount" db:"amount"`
	NewBalance decimal.Decimal     `json:"new_balance" db:"new_balance"`
	FuelPrice  decimal.NullDecimal `json:"fuel_price" db:"fuel_price"`
	Liters     decimal.NullDecimal `json:"liters" db:"liters"`
	Date       time.Time           `json:"transaction_date" db:"transaction_date"`
}

// TopUpRequest is the body of POST /cards/{id}/topup
type TopUpRequest struct {
	Amount decimal.NullDecimal `json:"amount" validate:"required"`
}

// SpendRequest is the body of POST /cards/{id}/spend
type SpendRequest struct {
	Amount    decimal.NullDecimal `json:"amount" validate:"required"`
	FuelPrice decimal.NullDecimal `json:"fuel_price"`
}

// SpendResult is what the ledger returns after a successful spend
type SpendResult struct {
	RemainingBalance decimal.Decimal
	Liters           decimal.Decimal
}

// TopUpResponse is returned by POST /cards/{id}/topup
type TopUpResponse struct {
	Message string          `json:"message"`
	Balance decimal.Decimal `json:"balance"`
}

// SpendResponse is returned by POST /cards/{id}/spend
type SpendResponse struct {
	Message          string          `json:"message"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Liters           decimal.Decimal `json:"liters"`
}

// TransactionHistory is returned by GET /cards/{id}/transactions
type TransactionHistory struct {
	CardID       int64         `json:"card_id"`
	Transactions []Transaction `json:"transactions"`
}

// LatestFuelPriceResponse is returned by GET /cards/{id}/latest-fuel-price
type LatestFuelPriceResponse struct {
	LatestFuelPrice decimal.Decimal `json:"latest_fuel_price"`
}
