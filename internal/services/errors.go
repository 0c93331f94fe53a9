package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies ledger failures. The HTTP layer maps kinds to status codes.
type ErrorKind string

const (
	KindInvalidArgument     ErrorKind = "INVALID_ARGUMENT"
	KindNotFound            ErrorKind = "NOT_FOUND"
	KindInsufficientBalance ErrorKind = "INSUFFICIENT_BALANCE"
	KindStorage             ErrorKind = "STORAGE_FAILURE"
)

// LedgerError is the only error type the ledger service returns.
// Message is safe to show to clients; Err carries the underlying cause.
type LedgerError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *LedgerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

var (
	ErrCardNotFound        = &LedgerError{Kind: KindNotFound, Message: "Card not found"}
	ErrFuelPriceNotFound   = &LedgerError{Kind: KindNotFound, Message: "No fuel price found"}
	ErrInsufficientBalance = &LedgerError{Kind: KindInsufficientBalance, Message: "Insufficient balance"}
)

func invalidArgument(message string) error {
	return &LedgerError{Kind: KindInvalidArgument, Message: message}
}

// KindOf extracts the error kind. Errors that did not come from the ledger
// are reported as storage failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindStorage
}

// PublicMessage returns the client-facing message for err.
func PublicMessage(err error) string {
	var le *LedgerError
	if errors.As(err, &le) && le.Kind != KindStorage {
		return le.Message
	}
	return "Database error"
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(string(KindOf(err)))
}
