package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelcard/backend/internal/logging"
)

type countingHandler struct {
	calls  atomic.Int32
	status int
	body   string
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.calls.Add(1)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(h.status)
	w.Write([]byte(h.body))
}

func setupIdempotency(t *testing.T, handler http.Handler) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	r := chi.NewRouter()
	r.Use(Idempotency(cache, time.Minute, logging.Nop()))
	r.Handle("/cards/{id}/topup", handler)
	r.Handle("/cards/{id}/spend", handler)
	return r, mr
}

func post(h http.Handler, target, key string) *httptest.ResponseRecorder {
	return postBody(h, target, key, `{"amount": 10}`)
}

func postBody(h http.Handler, target, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	handler := &countingHandler{status: http.StatusOK, body: `{"message":"Card 1 topped up with 10","balance":110}`}
	router, mr := setupIdempotency(t, handler)

	first := post(router, "/cards/1/topup", "retry-1")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get(IdempotentReplayHeader))

	second := post(router, "/cards/1/topup", "retry-1")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "true", second.Header().Get(IdempotentReplayHeader))
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	assert.Equal(t, int32(1), handler.calls.Load())
	assert.True(t, mr.Exists("idempotency:v1:retry-1"))
	assert.Greater(t, mr.TTL("idempotency:v1:retry-1"), time.Duration(0))
}

func TestIdempotency_ClientErrorsAreStored(t *testing.T) {
	handler := &countingHandler{status: http.StatusBadRequest, body: `{"error":"Insufficient balance"}`}
	router, _ := setupIdempotency(t, handler)

	post(router, "/cards/1/spend", "spend-1")
	replayed := post(router, "/cards/1/spend", "spend-1")

	assert.Equal(t, http.StatusBadRequest, replayed.Code)
	assert.Equal(t, "true", replayed.Header().Get(IdempotentReplayHeader))
	assert.Equal(t, int32(1), handler.calls.Load())
}

func TestIdempotency_ServerErrorsReleaseTheKey(t *testing.T) {
	handler := &countingHandler{status: http.StatusInternalServerError, body: `{"error":"Database error"}`}
	router, mr := setupIdempotency(t, handler)

	post(router, "/cards/1/topup", "flaky")
	assert.False(t, mr.Exists("idempotency:v1:flaky"))

	second := post(router, "/cards/1/topup", "flaky")
	assert.Equal(t, http.StatusInternalServerError, second.Code)
	assert.Empty(t, second.Header().Get(IdempotentReplayHeader))
	assert.Equal(t, int32(2), handler.calls.Load())
}

func TestIdempotency_InProgressDuplicate(t *testing.T) {
	handler := &countingHandler{status: http.StatusOK, body: `{}`}
	router, mr := setupIdempotency(t, handler)
	require.NoError(t, mr.Set("idempotency:v1:busy", inProgressMarker))

	w := post(router, "/cards/1/topup", "busy")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, int32(0), handler.calls.Load())
}

func TestIdempotency_KeyReusedOnAnotherRoute(t *testing.T) {
	handler := &countingHandler{status: http.StatusOK, body: `{}`}
	router, _ := setupIdempotency(t, handler)

	post(router, "/cards/1/topup", "shared")
	w := post(router, "/cards/1/spend", "shared")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, int32(1), handler.calls.Load())
}

func TestIdempotency_KeyReusedWithDifferentBody(t *testing.T) {
	handler := &countingHandler{status: http.StatusOK, body: `{"message":"Card 1 topped up with 30","balance":130}`}
	router, _ := setupIdempotency(t, handler)

	first := postBody(router, "/cards/1/topup", "pump-3", `{"amount": 30}`)
	require.Equal(t, http.StatusOK, first.Code)

	second := postBody(router, "/cards/1/topup", "pump-3", `{"amount": 9000}`)
	assert.Equal(t, http.StatusUnprocessableEntity, second.Code)
	assert.Empty(t, second.Header().Get(IdempotentReplayHeader))
	assert.NotContains(t, second.Body.String(), "130")

	// The original body still replays.
	third := postBody(router, "/cards/1/topup", "pump-3", `{"amount": 30}`)
	assert.Equal(t, "true", third.Header().Get(IdempotentReplayHeader))
	assert.Equal(t, first.Body.String(), third.Body.String())

	assert.Equal(t, int32(1), handler.calls.Load())
}

func TestIdempotency_HandlerSeesFullBody(t *testing.T) {
	var seen []byte
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})
	router, _ := setupIdempotency(t, handler)

	postBody(router, "/cards/1/spend", "body-1", `{"amount": 12, "fuel_price": 1.5}`)
	assert.Equal(t, `{"amount": 12, "fuel_price": 1.5}`, string(seen))
}

func TestIdempotency_PassThrough(t *testing.T) {
	handler := &countingHandler{status: http.StatusOK, body: `{}`}
	router, mr := setupIdempotency(t, handler)

	post(router, "/cards/1/topup", "")
	post(router, "/cards/1/topup", "")
	assert.Equal(t, int32(2), handler.calls.Load())

	req := httptest.NewRequest(http.MethodGet, "/cards/1/topup", nil)
	req.Header.Set(IdempotencyKeyHeader, "ignored-for-get")
	router.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, int32(3), handler.calls.Load())
	assert.False(t, mr.Exists("idempotency:v1:ignored-for-get"))

	w := post(router, "/cards/1/topup", strings.Repeat("k", 256))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIdempotency_StoreFailures(t *testing.T) {
	handler := &countingHandler{status: http.StatusOK, body: `{}`}

	t.Run("lookup error", func(t *testing.T) {
		cache, mock := redismock.NewClientMock()
		mock.ExpectGet("idempotency:v1:k1").SetErr(errors.New("connection refused"))

		h := Idempotency(cache, time.Minute, logging.Nop())(handler)
		w := post(h, "/cards/1/topup", "k1")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost reservation race", func(t *testing.T) {
		cache, mock := redismock.NewClientMock()
		mock.ExpectGet("idempotency:v1:k2").RedisNil()
		mock.ExpectSetNX("idempotency:v1:k2", inProgressMarker, time.Minute).SetVal(false)

		h := Idempotency(cache, time.Minute, logging.Nop())(handler)
		w := post(h, "/cards/1/topup", "k2")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	assert.Equal(t, int32(0), handler.calls.Load())
}
