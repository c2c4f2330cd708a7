package utils

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := NewBackoff(time.Millisecond, 2).Do(context.Background(), func(i int) error {
		calls++
		if i < 2 {
			return errors.New("boom")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestBackoffGivesUp(t *testing.T) {
	calls := 0
	err := NewBackoff(time.Millisecond, 2).Do(context.Background(), func(int) error {
		calls++
		return errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 3, calls)
}

func TestBackoffPermanent(t *testing.T) {
	sentinel := errors.New("nope")
	calls := 0
	err := NewBackoff(time.Millisecond, 5).Do(context.Background(), func(int) error {
		calls++
		return Permanent(sentinel)
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestBackoffContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewBackoff(time.Hour, 3).Do(ctx, func(int) error { return errors.New("boom") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", seen)
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	mux := chi.NewRouter()
	mux.Use(Logger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	mux.Use(Metrics)
	mux.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/things/{id}", "418"))
	for _, id := range []string{"1", "2"} {
		mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/things/{id}", "418"))
	assert.Equal(t, 2.0, after-before)
}
