package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// StartSimulationRequest is the body of POST /api/v1/simulation/start.
// Speed is simulated seconds per wall-clock second; zero uses the default.
type StartSimulationRequest struct {
	Speed float64 `json:"speed"`
}

// AdvanceRequest is the body of POST /api/v1/simulation/advance.
type AdvanceRequest struct {
	Minutes float64 `json:"minutes"`
}

// GetSimulation handles GET /api/v1/simulation.
func (s *Server) GetSimulation(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.fleet.SimulationStats(ctx.Request().Context()))
}

// StartSimulation handles POST /api/v1/simulation/start.
func (s *Server) StartSimulation(ctx echo.Context) error {
	var req StartSimulationRequest
	if ctx.Request().ContentLength != 0 {
		if err := ctx.Bind(&req); err != nil {
			return badRequest(ctx, "Invalid request body")
		}
	}

	stats, err := s.fleet.StartSimulation(ctx.Request().Context(), req.Speed)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, stats)
}

// StopSimulation handles POST /api/v1/simulation/stop.
func (s *Server) StopSimulation(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.fleet.StopSimulation(ctx.Request().Context()))
}

// AdvanceSimulation handles POST /api/v1/simulation/advance.
func (s *Server) AdvanceSimulation(ctx echo.Context) error {
	var req AdvanceRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	stats, err := s.fleet.Advance(ctx.Request().Context(), req.Minutes)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, stats)
}

// TickSimulation handles POST /api/v1/simulation/tick.
func (s *Server) TickSimulation(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, s.fleet.Tick(ctx.Request().Context()))
}
