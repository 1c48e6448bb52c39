//go:build unit

package handler_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"
	"time"

	"booking-reconciler/internal/handler"
	"booking-reconciler/internal/handler/api"
	"booking-reconciler/internal/lock"
	"booking-reconciler/internal/metrics"
	"booking-reconciler/internal/pkg/config"
	"booking-reconciler/internal/scheduler"
	"booking-reconciler/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpsRouter(t *testing.T, logs *bytes.Buffer) (*gin.Engine, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := metrics.NewRegistry()
	m := metrics.New()
	m.Register(reg)

	registry := scheduler.NewRegistry()
	require.NoError(t, registry.Register("booking-expiration", func(ctx context.Context) error { return nil }))
	sched := scheduler.New(registry, scheduler.WithRunOnStartup(false))

	cfg := config.NewTestConfig()
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	engine := gin.New()
	handler.NewRouter(engine, cfg, logger, reg, handler.Handlers{
		Jobs:   api.NewJobsHandler(sched),
		Health: api.NewHealthHandler(lock.Unconfigured()),
	})
	return engine, m
}

func TestRouterServesOpsEndpoints(t *testing.T) {
	var logs bytes.Buffer
	router, m := newOpsRouter(t, &logs)
	m.ObserveJob("booking-expiration", metrics.JobSucceeded, 2*time.Second)

	rec := httptest.PerformRequest(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lockBackend":"unconfigured"`)

	rec = httptest.PerformRequest(t, router, http.MethodGet, "/jobs", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"booking-expiration"`)

	rec = httptest.PerformRequest(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reconciler_job_runs_total")

	// The scheduler was never started, so a manual run is refused.
	rec = httptest.PerformRequest(t, router, http.MethodPost, "/jobs/booking-expiration/run", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.PerformRequest(t, router, http.MethodPost, "/jobs/unknown/run", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Contains(t, logs.String(), "Request completed")
	assert.Contains(t, logs.String(), "job=unknown")
}

func TestRouterCORS(t *testing.T) {
	var logs bytes.Buffer
	router, _ := newOpsRouter(t, &logs)

	req := nethttptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := nethttptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
