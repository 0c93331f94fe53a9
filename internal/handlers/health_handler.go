package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/fuelcard/backend/internal/services"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type HealthHandler struct {
	database Pinger
	redis    Pinger
	logger   zerolog.Logger
}

// NewHealthHandler builds the health check. redis may be nil when the
// idempotency store is disabled.
func NewHealthHandler(database Pinger, redis Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{database: database, redis: redis, logger: logger}
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Health reports dependency reachability
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "healthy", Database: "up", Redis: "disabled"}
	status := http.StatusOK

	if err := h.database.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("database health check failed")
		resp.Status = "unhealthy"
		resp.Database = "down"
		status = http.StatusServiceUnavailable
	}

	if h.redis != nil {
		resp.Redis = "up"
		if err := h.redis.Ping(ctx); err != nil {
			// Idempotency is optional; a redis outage degrades but does not fail the check.
			h.logger.Warn().Err(err).Msg("redis health check failed")
			resp.Redis = "down"
			if status == http.StatusOK {
				resp.Status = "degraded"
			}
		}
	}

	services.SendJSONResponse(w, status, resp)
}
