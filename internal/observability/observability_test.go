package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/finance-service/internal/config"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordError("POST", "NOT_FOUND")
	m.RecordError("POST", "NOT_FOUND")
	m.RecordLogin(true)
	m.RecordLogin(false)
	m.RecordLogin(false)
	m.RecordSweep(3)
	m.RecordSweep(0)
	m.RecordSweepFailure()
	m.RecordSweepSkipped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.errors.WithLabelValues("POST", "NOT_FOUND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.logins.WithLabelValues("failure")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sweepDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweepFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweepSkipped))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordError("GET", "X")
		m.RecordLogin(true)
		m.RecordSweep(1)
		m.RecordSweepFailure()
		m.RecordSweepSkipped()
	})
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app := fiber.New()
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc123", resp.Header.Get(RequestIDHeader))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(RequestIDHeader), 27)

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, int64(http.StatusNotFound), entries[1].ContextMap()["status"])
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "debug"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "bogus", Dev: true})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}
