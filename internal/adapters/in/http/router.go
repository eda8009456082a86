package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RouterOption adds optional endpoints and middleware to the router.
type RouterOption func(e *echo.Echo)

// WithMetrics serves h at /metrics and installs mw for every route.
func WithMetrics(h http.Handler, mw echo.MiddlewareFunc) RouterOption {
	return func(e *echo.Echo) {
		if mw != nil {
			e.Use(mw)
		}
		e.GET("/metrics", echo.WrapHandler(h))
	}
}

// WithEvents serves the notification stream at /api/v1/events.
func WithEvents(handler echo.HandlerFunc) RouterOption {
	return func(e *echo.Echo) {
		e.GET("/api/v1/events", handler)
	}
}

// WithRateLimit limits every client address to limit requests per second.
// A non-positive limit leaves the router unlimited.
func WithRateLimit(limit float64) RouterOption {
	return func(e *echo.Echo) {
		if limit <= 0 {
			return
		}
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(limit))))
	}
}

// NewRouter returns an echo instance with every API route registered.
func NewRouter(s *Server, opts ...RouterOption) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	for _, opt := range opts {
		opt(e)
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1")

	api.POST("/vehicles", s.CreateVehicle)
	api.GET("/vehicles", s.GetVehicles)
	api.GET("/vehicles/:id", s.GetVehicle)

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/:id/status", s.GetCustomerStatus)
	api.GET("/orders/:id/route-estimate", s.GetRouteEstimate)

	api.POST("/zones", s.CreateZone)
	api.GET("/zones", s.GetZones)
	api.GET("/zones/:id", s.GetZone)
	api.PUT("/zones/:id/active", s.SetZoneActive)

	api.POST("/deliveries/process", s.ProcessDeliveries)
	api.GET("/deliveries", s.GetDeliveries)
	api.GET("/allocations", s.GetAllocationHistory)
	api.GET("/statistics", s.GetStatistics)
	api.GET("/queue", s.GetQueueStats)

	api.GET("/simulation", s.GetSimulation)
	api.POST("/simulation/start", s.StartSimulation)
	api.POST("/simulation/stop", s.StopSimulation)
	api.POST("/simulation/advance", s.AdvanceSimulation)
	api.POST("/simulation/tick", s.TickSimulation)

	api.POST("/fleet/clear", s.ClearAssignments)
	api.POST("/fleet/reset", s.Reset)

	api.GET("/journal/deliveries", s.GetDeliveryHistory)
	api.GET("/journal/passes", s.GetAllocationPasses)

	return e
}
