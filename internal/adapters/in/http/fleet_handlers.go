package http

import (
	"net/http"
	"strconv"

	"dronedelivery/internal/core/application/fleet"
	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// CreateVehicle handles POST /api/v1/vehicles.
func (s *Server) CreateVehicle(ctx echo.Context) error {
	var fields ports.VehicleFields
	if err := ctx.Bind(&fields); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	snapshot, err := s.fleet.RegisterVehicle(ctx.Request().Context(), fields)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, snapshot)
}

// GetVehicles handles GET /api/v1/vehicles.
func (s *Server) GetVehicles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.fleet.Vehicles(ctx.Request().Context()))
}

// GetVehicle handles GET /api/v1/vehicles/:id. The snapshot includes the
// state history.
func (s *Server) GetVehicle(ctx echo.Context) error {
	snapshot, err := s.fleet.Vehicle(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, snapshot)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var fields ports.OrderFields
	if err := ctx.Bind(&fields); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	snapshot, err := s.fleet.CreateOrder(ctx.Request().Context(), fields)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, snapshot)
}

// GetOrders handles GET /api/v1/orders.
func (s *Server) GetOrders(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.fleet.Orders(ctx.Request().Context()))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	snapshot, err := s.fleet.Order(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, snapshot)
}

// GetCustomerStatus handles GET /api/v1/orders/:id/status.
func (s *Server) GetCustomerStatus(ctx echo.Context) error {
	status, err := s.fleet.CustomerStatus(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, status)
}

// GetRouteEstimate handles GET /api/v1/orders/:id/route-estimate.
func (s *Server) GetRouteEstimate(ctx echo.Context) error {
	estimate, err := s.fleet.RouteEstimate(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, estimate)
}

// CreateZone handles POST /api/v1/zones.
func (s *Server) CreateZone(ctx echo.Context) error {
	var fields ports.ZoneFields
	if err := ctx.Bind(&fields); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	snapshot, err := s.fleet.AddZone(ctx.Request().Context(), fields)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, snapshot)
}

// GetZones handles GET /api/v1/zones. With x and y query parameters only the
// active zones containing that point are returned.
func (s *Server) GetZones(ctx echo.Context) error {
	x, y := ctx.QueryParam("x"), ctx.QueryParam("y")
	if x == "" && y == "" {
		return ctx.JSON(http.StatusOK, s.fleet.Zones(ctx.Request().Context()))
	}

	px, errX := strconv.ParseFloat(x, 64)
	py, errY := strconv.ParseFloat(y, 64)
	if errX != nil || errY != nil {
		return badRequest(ctx, "x and y must both be numbers")
	}
	p, err := kernel.NewPoint(px, py)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, s.fleet.ZonesContaining(ctx.Request().Context(), p))
}

// GetZone handles GET /api/v1/zones/:id.
func (s *Server) GetZone(ctx echo.Context) error {
	snapshot, err := s.fleet.Zone(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, snapshot)
}

// SetZoneActiveRequest is the body of PUT /api/v1/zones/:id/active.
type SetZoneActiveRequest struct {
	Active *bool `json:"active"`
}

// SetZoneActive handles PUT /api/v1/zones/:id/active.
func (s *Server) SetZoneActive(ctx echo.Context) error {
	var req SetZoneActiveRequest
	if err := ctx.Bind(&req); err != nil || req.Active == nil {
		return badRequest(ctx, "Body must be {\"active\": true|false}")
	}

	snapshot, err := s.fleet.SetZoneActive(ctx.Request().Context(), ctx.Param("id"), *req.Active)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, snapshot)
}

// ProcessRequest is the body of POST /api/v1/deliveries/process. Strategy,
// when set, takes precedence over UseOptimizer.
type ProcessRequest struct {
	UseOptimizer bool   `json:"useOptimizer"`
	Strategy     string `json:"strategy"`
}

// ProcessDeliveries handles POST /api/v1/deliveries/process.
func (s *Server) ProcessDeliveries(ctx echo.Context) error {
	var req ProcessRequest
	if ctx.Request().ContentLength != 0 {
		if err := ctx.Bind(&req); err != nil {
			return badRequest(ctx, "Invalid request body")
		}
	}

	reqCtx := ctx.Request().Context()
	var (
		result fleet.ProcessResult
		err    error
	)
	if req.Strategy != "" {
		result, err = s.fleet.ProcessWith(reqCtx, delivery.Strategy(req.Strategy))
	} else {
		result, err = s.fleet.ProcessDeliveries(reqCtx, req.UseOptimizer)
	}
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, result)
}

// GetDeliveries handles GET /api/v1/deliveries.
func (s *Server) GetDeliveries(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.fleet.Deliveries(ctx.Request().Context()))
}

// GetAllocationHistory handles GET /api/v1/allocations.
func (s *Server) GetAllocationHistory(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.fleet.AllocationHistory(ctx.Request().Context()))
}

// GetStatistics handles GET /api/v1/statistics.
func (s *Server) GetStatistics(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.fleet.Statistics(ctx.Request().Context()))
}

// GetQueueStats handles GET /api/v1/queue.
func (s *Server) GetQueueStats(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.fleet.QueueStats(ctx.Request().Context()))
}

// ClearAssignments handles POST /api/v1/fleet/clear.
func (s *Server) ClearAssignments(ctx echo.Context) error {
	s.fleet.ClearAssignments(ctx.Request().Context())
	return ctx.NoContent(http.StatusNoContent)
}

// Reset handles POST /api/v1/fleet/reset.
func (s *Server) Reset(ctx echo.Context) error {
	s.fleet.Reset(ctx.Request().Context())
	return ctx.NoContent(http.StatusNoContent)
}
