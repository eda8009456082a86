// Package metrics exposes fleet counters on a dedicated Prometheus registry.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"dronedelivery/internal/core/application/simulator"
	"dronedelivery/internal/core/domain/model/delivery"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dronedelivery"

// Metrics holds the collectors registered on Registry.
type Metrics struct {
	// Registry is the registry served by Handler.
	Registry *prometheus.Registry

	// HTTPRequests counts requests by method, route and status.
	HTTPRequests *prometheus.CounterVec
	// HTTPDuration records request durations in seconds.
	HTTPDuration *prometheus.HistogramVec
	// Notifications counts simulator notifications by channel.
	Notifications *prometheus.CounterVec
	// AllocationPasses counts processing passes by strategy.
	AllocationPasses *prometheus.CounterVec
	// OrdersAllocated counts orders committed to a trip by strategy.
	OrdersAllocated *prometheus.CounterVec
	// OrdersUnallocated tracks the pending orders left after the last pass.
	OrdersUnallocated prometheus.Gauge
	// Deliveries counts completed deliveries.
	Deliveries prometheus.Counter
	// DeliveryWait records minutes from order arrival to delivery.
	DeliveryWait prometheus.Histogram
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests."},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "notifications_total", Help: "Simulator notifications by channel."},
			[]string{"channel"},
		),
		AllocationPasses: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "allocation_passes_total", Help: "Processing passes by strategy."},
			[]string{"strategy"},
		),
		OrdersAllocated: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "orders_allocated_total", Help: "Orders committed to a trip by strategy."},
			[]string{"strategy"},
		),
		OrdersUnallocated: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "orders_unallocated", Help: "Pending orders left after the last pass."},
		),
		Deliveries: prometheus.NewCounter(
			prometheus.CounterOpts{Namespace: namespace, Name: "deliveries_total", Help: "Completed deliveries."},
		),
		DeliveryWait: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "delivery_wait_minutes",
				Help:      "Minutes from order arrival to delivery.",
				Buckets:   []float64{5, 10, 15, 30, 60, 120, 240},
			},
		),
	}

	m.Registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.Notifications,
		m.AllocationPasses,
		m.OrdersAllocated,
		m.OrdersUnallocated,
		m.Deliveries,
		m.DeliveryWait,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Observer counts every notification it receives. Subscribe it to each
// simulator channel.
func (m *Metrics) Observer() simulator.Observer {
	return func(_ context.Context, n simulator.Notification) error {
		m.Notifications.WithLabelValues(string(n.Channel)).Inc()
		return nil
	}
}

// RecordAllocationPass updates the allocation counters. With WithJournal the
// controller calls it after every pass.
func (m *Metrics) RecordAllocationPass(_ context.Context, pass delivery.AllocationPass) error {
	strategy := string(pass.Strategy())
	m.AllocationPasses.WithLabelValues(strategy).Inc()
	m.OrdersAllocated.WithLabelValues(strategy).Add(float64(pass.Allocated()))
	m.OrdersUnallocated.Set(float64(pass.Unallocated()))
	return nil
}

// RecordDelivery counts a completed delivery and observes its wait time.
func (m *Metrics) RecordDelivery(_ context.Context, record delivery.Record) error {
	m.Deliveries.Inc()
	m.DeliveryWait.Observe(record.WaitMinutes())
	return nil
}

// Middleware records HTTP request counts and durations labelled by the route
// pattern, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			labels := []string{c.Request().Method, path, strconv.Itoa(status)}
			m.HTTPRequests.WithLabelValues(labels...).Inc()
			m.HTTPDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
