package http

import (
	"net/http"
	"strconv"
	"time"

	"dronedelivery/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

const journalDisabled = "Delivery journal is disabled"

// GetDeliveryHistory handles GET /api/v1/journal/deliveries?vehicleId=&limit=.
func (s *Server) GetDeliveryHistory(ctx echo.Context) error {
	if s.deliveryHistoryHandler == nil {
		return ctx.JSON(http.StatusServiceUnavailable, Error{Code: http.StatusServiceUnavailable, Message: journalDisabled})
	}

	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(ctx, "limit must be an integer")
		}
		limit = parsed
	}

	query, err := queries.NewGetDeliveryHistoryQuery(ctx.QueryParam("vehicleId"), limit)
	if err != nil {
		return s.fail(ctx, err)
	}

	records, err := s.deliveryHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, records)
}

// GetAllocationPasses handles GET /api/v1/journal/passes?since=RFC3339.
func (s *Server) GetAllocationPasses(ctx echo.Context) error {
	if s.allocationPassesHandler == nil {
		return ctx.JSON(http.StatusServiceUnavailable, Error{Code: http.StatusServiceUnavailable, Message: journalDisabled})
	}

	var since time.Time
	if raw := ctx.QueryParam("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(ctx, "since must be an RFC 3339 timestamp")
		}
		since = parsed
	}

	passes, err := s.allocationPassesHandler.Handle(ctx.Request().Context(), queries.NewGetAllocationPassesQuery(since))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, passes)
}
