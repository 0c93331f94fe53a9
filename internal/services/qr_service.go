package services

import (
	"context"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const (
	cardQRPrefix = "fuelcard:"
	cardQRSize   = 256
)

// CardQRService renders scannable QR codes identifying a card at the pump.
type CardQRService struct {
	ledger *LedgerService
}

func NewCardQRService(ledger *LedgerService) *CardQRService {
	return &CardQRService{ledger: ledger}
}

// CardPayload is the text encoded into a card's QR code.
func CardPayload(cardID int64) string {
	return fmt.Sprintf("%s%d", cardQRPrefix, cardID)
}

// GenerateCardQR returns a PNG for an existing card.
func (s *CardQRService) GenerateCardQR(ctx context.Context, cardID int64) ([]byte, error) {
	if _, err := s.ledger.GetCardInfo(ctx, cardID); err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(CardPayload(cardID), qrcode.Medium, cardQRSize)
	if err != nil {
		return nil, fmt.Errorf("encode card qr: %w", err)
	}
	return png, nil
}
