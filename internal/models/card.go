package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Money goes over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Card represents a fuel card and its current balance
type Card struct {
	ID      int64           `json:"card_id" db:"card_id"`
	Name    string          `json:"card_name" db:"card_name"`
	Balance decimal.Decimal `json:"balance" db:"balance"`
}

// AddCardRequest is the body of POST /cards/add
type AddCardRequest struct {
	Name    string              `json:"name" validate:"required,max=100"`
	Balance decimal.NullDecimal `json:"balance" validate:"required"`
}

// CreatedCard is returned after a card has been added
type CreatedCard struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

// CardSummary aggregates spend over an optional date range
type CardSummary struct {
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	TotalLiters decimal.Decimal `json:"totalLiters"`
	CardInfo    *Card           `json:"cardInfo"`
}

// MessageResponse is a plain acknowledgement body
type MessageResponse struct {
	Message string `json:"message"`
}
