package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/fuelcard/backend/internal/audit"
	"github.com/fuelcard/backend/internal/handlers"
	"github.com/fuelcard/backend/internal/metrics"
	mW "github.com/fuelcard/backend/internal/middleware"
	"github.com/fuelcard/backend/internal/services"
)

// DefaultRequestTimeout applies when Deps.RequestTimeout is unset. It stays
// below the server's write timeout.
const DefaultRequestTimeout = 10 * time.Second

// Deps are the collaborators the HTTP surface is built from. Redis and
// Registry are optional.
type Deps struct {
	DB             *sql.DB
	Redis          *redis.Client
	Registry       *prometheus.Registry
	Logger         zerolog.Logger
	IdempotencyTTL time.Duration
	SwaggerURL     string
	RequestTimeout time.Duration
}

func (d Deps) requestTimeout() time.Duration {
	if d.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return d.RequestTimeout
}

func NewRouter(deps Deps) http.Handler {
	var registerer prometheus.Registerer
	if deps.Registry != nil {
		registerer = deps.Registry
	}

	ledger := services.NewLedgerService(
		deps.DB,
		audit.NewAuditLogger(deps.Logger),
		metrics.NewLedgerMetrics(registerer),
		deps.Logger,
	)
	cardHandler := handlers.NewCardHandler(ledger, deps.Logger)
	qrHandler := handlers.NewQRHandler(services.NewCardQRService(ledger), deps.Logger)

	var redisPinger handlers.Pinger
	if deps.Redis != nil {
		redisPinger = handlers.PingFunc(func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		})
	}
	healthHandler := handlers.NewHealthHandler(ledger, redisPinger, deps.Logger)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mW.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(deps.requestTimeout()))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", mW.IdempotencyKeyHeader},
		ExposedHeaders: []string{mW.IdempotentReplayHeader},
		MaxAge:         86400,
	}))

	// Operational endpoints
	r.Get("/health", healthHandler.Health)
	if deps.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}
	if deps.SwaggerURL != "" {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(deps.SwaggerURL)))
	}

	// Ledger routes
	r.Group(func(r chi.Router) {
		if deps.Redis != nil {
			r.Use(mW.Idempotency(deps.Redis, deps.IdempotencyTTL, deps.Logger))
		}

		r.Get("/", cardHandler.ListCards)
		r.Post("/cards/add", cardHandler.AddCard)

		r.Route("/cards/{id}", func(r chi.Router) {
			r.Get("/info", cardHandler.GetCardInfo)
			r.Post("/topup", cardHandler.TopUp)
			r.Post("/spend", cardHandler.Spend)
			r.Get("/transactions", cardHandler.ListTransactions)
			r.Get("/latest-fuel-price", cardHandler.LatestFuelPrice)
			r.Delete("/delete", cardHandler.DeleteCard)
			r.Get("/summary", cardHandler.Summary)
			r.Get("/qr", qrHandler.CardQR)
		})
	})

	return r
}
