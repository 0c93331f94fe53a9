package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/fuelcard/backend/internal/services"
)

const (
	IdempotencyKeyHeader   = "Idempotency-Key"
	IdempotentReplayHeader = "Idempotent-Replayed"

	idempotencyPrefix = "idempotency:v1:"
	inProgressMarker  = "__in_progress__"
	maxKeyLength      = 255
	storeTimeout      = 2 * time.Second
	maxBodyBytes      = 1 << 20
)

type storedResponse struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	RequestHash string `json:"request_hash"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Idempotency replays the stored response for POST and DELETE requests that
// repeat an Idempotency-Key with the same method, path and body. Requests
// without the header pass through. Server errors are not stored so the client
// can retry them.
func Idempotency(cache *redis.Client, ttl time.Duration, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("component", "idempotency").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodDelete {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(key) > maxKeyLength {
				services.SendErrorResponse(w, "Idempotency-Key is too long", http.StatusBadRequest, nil)
				return
			}

			cacheKey := idempotencyPrefix + key
			log := logger.With().Str("idempotency_key", key).Str("request_id", chimw.GetReqID(r.Context())).Logger()

			requestBody, err := readBody(w, r)
			if err != nil {
				services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
				return
			}
			requestHash := hashBody(requestBody)

			ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
			defer cancel()

			cached, err := cache.Get(ctx, cacheKey).Bytes()
			switch {
			case err == nil:
				replay(w, r, requestHash, cached, log)
				return
			case !errors.Is(err, redis.Nil):
				log.Error().Err(err).Msg("idempotency lookup failed")
				services.SendErrorResponse(w, "Idempotency store failure", http.StatusServiceUnavailable, nil)
				return
			}

			reserved, err := cache.SetNX(ctx, cacheKey, inProgressMarker, ttl).Result()
			if err != nil {
				log.Error().Err(err).Msg("idempotency reservation failed")
				services.SendErrorResponse(w, "Idempotency store failure", http.StatusServiceUnavailable, nil)
				return
			}
			if !reserved {
				services.SendErrorResponse(w, "Duplicate request currently processing", http.StatusConflict, nil)
				return
			}

			var body bytes.Buffer
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)

			completed := false
			defer func() {
				if !completed {
					release(cache, cacheKey, log)
				}
			}()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				return
			}

			payload, err := json.Marshal(storedResponse{
				Method:      r.Method,
				Path:        r.URL.Path,
				RequestHash: requestHash,
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        body.Bytes(),
			})
			if err != nil {
				log.Error().Err(err).Msg("failed to encode idempotent response")
				return
			}

			persistCtx, persistCancel := context.WithTimeout(context.Background(), storeTimeout)
			defer persistCancel()
			if err := cache.Set(persistCtx, cacheKey, payload, ttl).Err(); err != nil {
				log.Error().Err(err).Msg("failed to persist idempotent response")
				return
			}
			completed = true
		})
	}
}

func replay(w http.ResponseWriter, r *http.Request, requestHash string, cached []byte, log zerolog.Logger) {
	if string(cached) == inProgressMarker {
		services.SendErrorResponse(w, "Duplicate request currently processing", http.StatusConflict, nil)
		return
	}

	var stored storedResponse
	if err := json.Unmarshal(cached, &stored); err != nil {
		log.Warn().Err(err).Msg("failed to decode stored idempotent response")
		services.SendErrorResponse(w, "Duplicate request", http.StatusConflict, nil)
		return
	}
	if stored.Method != r.Method || stored.Path != r.URL.Path {
		services.SendErrorResponse(w, "Idempotency-Key was used for a different request", http.StatusUnprocessableEntity, nil)
		return
	}
	if stored.RequestHash != requestHash {
		services.SendErrorResponse(w, "Idempotency-Key was used with a different request body", http.StatusUnprocessableEntity, nil)
		return
	}

	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set(IdempotentReplayHeader, "true")
	w.WriteHeader(stored.Status)
	w.Write(stored.Body)
}

// release drops the in-progress marker so the request can be retried.
func release(cache *redis.Client, cacheKey string, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := cache.Del(ctx, cacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to release idempotency key")
	}
}

// readBody consumes the request body and puts it back for the next handler.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func hashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}
