package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/fuelcard/backend/internal/services"
)

type QRHandler struct {
	service *services.CardQRService
	logger  zerolog.Logger
}

func NewQRHandler(service *services.CardQRService, logger zerolog.Logger) *QRHandler {
	return &QRHandler{
		service: service,
		logger:  logger.With().Str("component", "qr_handler").Logger(),
	}
}

// CardQR renders the card's QR code
// @Summary Card QR code
// @Description PNG QR code encoding fuelcard:{id} for pump-side scanning
// @Tags Cards
// @Produce png
// @Param id path int true "Card ID"
// @Success 200 {file} binary
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /cards/{id}/qr [get]
func (h *QRHandler) CardQR(w http.ResponseWriter, r *http.Request) {
	cardID, ok := cardIDParam(w, r)
	if !ok {
		return
	}

	png, err := h.service.GenerateCardQR(r.Context(), cardID)
	if err != nil {
		writeLedgerError(h.logger, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
