package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dronedelivery/internal/core/application/simulator"
	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observer(t *testing.T) {
	m := metrics.New()
	observe := m.Observer()

	require.NoError(t, observe(context.Background(), simulator.Notification{Channel: simulator.LowBattery}))
	require.NoError(t, observe(context.Background(), simulator.Notification{Channel: simulator.LowBattery}))
	require.NoError(t, observe(context.Background(), simulator.Notification{Channel: simulator.StateChanged}))

	assert.InDelta(t, 2.0, testutil.ToFloat64(m.Notifications.WithLabelValues("low-battery")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("state-changed")), 1e-9)
}

func TestMetrics_Journal(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)

	t.Run("allocation pass", func(t *testing.T) {
		m := metrics.New()
		pass, err := delivery.NewAllocationPass(at, delivery.StrategyOptimizer, 1, 3, 1)
		require.NoError(t, err)

		require.NoError(t, m.RecordAllocationPass(ctx, pass))

		assert.InDelta(t, 1.0, testutil.ToFloat64(m.AllocationPasses.WithLabelValues("optimizer")), 1e-9)
		assert.InDelta(t, 3.0, testutil.ToFloat64(m.OrdersAllocated.WithLabelValues("optimizer")), 1e-9)
		assert.InDelta(t, 1.0, testutil.ToFloat64(m.OrdersUnallocated), 1e-9)
	})

	t.Run("delivery", func(t *testing.T) {
		m := metrics.New()
		record, err := delivery.NewRecord("P1", "D1", 13.5, at, 13.5)
		require.NoError(t, err)

		require.NoError(t, m.RecordDelivery(ctx, record))

		assert.InDelta(t, 1.0, testutil.ToFloat64(m.Deliveries), 1e-9)
		assert.Equal(t, 1, testutil.CollectAndCount(m.DeliveryWait))
	})
}

func TestMetrics_Middleware(t *testing.T) {
	m := metrics.New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/vehicles/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/missing/:id", func(_ echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "missing")
	})

	for _, path := range []string{"/api/v1/vehicles/D1", "/api/v1/vehicles/D2", "/missing/x"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 2.0,
		testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/vehicles/:id", "200")), 1e-9)
	assert.InDelta(t, 1.0,
		testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/missing/:id", "404")), 1e-9)
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.Notifications.WithLabelValues("delivery-complete").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dronedelivery_notifications_total{channel="delivery-complete"} 1`)
}
