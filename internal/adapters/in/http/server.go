// Package http serves the fleet controller over a JSON API built on echo.
package http

import (
	"context"
	"log/slog"

	"dronedelivery/internal/core/application/fleet"
	"dronedelivery/internal/core/application/simulator"
	"dronedelivery/internal/core/application/usecases/queries"
	"dronedelivery/internal/core/domain/model/delivery"
	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/core/domain/model/order"
	"dronedelivery/internal/core/domain/model/vehicle"
	"dronedelivery/internal/core/domain/model/zone"
	"dronedelivery/internal/core/domain/services"
	"dronedelivery/internal/core/ports"
	"dronedelivery/internal/pkg/logging"
)

// Fleet is the controller surface the API exposes. *fleet.Controller implements it.
type Fleet interface {
	RegisterVehicle(ctx context.Context, fields ports.VehicleFields) (vehicle.Snapshot, error)
	CreateOrder(ctx context.Context, fields ports.OrderFields) (order.Snapshot, error)
	AddZone(ctx context.Context, fields ports.ZoneFields) (zone.Snapshot, error)
	SetZoneActive(ctx context.Context, id string, active bool) (zone.Snapshot, error)

	ProcessDeliveries(ctx context.Context, useOptimizer bool) (fleet.ProcessResult, error)
	ProcessWith(ctx context.Context, strategy delivery.Strategy) (fleet.ProcessResult, error)

	StartSimulation(ctx context.Context, speed float64) (simulator.Stats, error)
	StopSimulation(ctx context.Context) simulator.Stats
	Advance(ctx context.Context, minutes float64) (simulator.Stats, error)
	Tick(ctx context.Context) simulator.Stats

	ClearAssignments(ctx context.Context)
	Reset(ctx context.Context)

	Vehicles(ctx context.Context) []vehicle.Snapshot
	Vehicle(ctx context.Context, id string) (vehicle.Snapshot, error)
	Orders(ctx context.Context) []order.Snapshot
	Order(ctx context.Context, id string) (order.Snapshot, error)
	Zones(ctx context.Context) []zone.Snapshot
	Zone(ctx context.Context, id string) (zone.Snapshot, error)
	ZonesContaining(ctx context.Context, p kernel.Point) []zone.Snapshot
	RouteEstimate(ctx context.Context, orderID string) (fleet.RouteEstimate, error)
	Statistics(ctx context.Context) fleet.Statistics
	QueueStats(ctx context.Context) services.QueueStats
	SimulationStats(ctx context.Context) simulator.Stats
	CustomerStatus(ctx context.Context, orderID string) (fleet.CustomerStatus, error)
	Deliveries(ctx context.Context) []delivery.Record
	AllocationHistory(ctx context.Context) []delivery.AllocationPass
}

// DeliveryHistoryQueryHandler reads journaled deliveries.
type DeliveryHistoryQueryHandler interface {
	Handle(ctx context.Context, query queries.GetDeliveryHistoryQuery) ([]queries.GetDeliveryHistoryQueryResponse, error)
}

// AllocationPassesQueryHandler reads journaled allocation passes.
type AllocationPassesQueryHandler interface {
	Handle(ctx context.Context, query queries.GetAllocationPassesQuery) ([]queries.GetAllocationPassesQueryResponse, error)
}

// Server implements the API handlers. It translates requests into controller
// calls and domain errors into HTTP status codes.
type Server struct {
	fleet Fleet

	// Journal query handlers; nil when the journal is disabled.
	deliveryHistoryHandler  DeliveryHistoryQueryHandler
	allocationPassesHandler AllocationPassesQueryHandler

	logger *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithJournalQueries enables the /journal endpoints.
func WithJournalQueries(history DeliveryHistoryQueryHandler, passes AllocationPassesQueryHandler) ServerOption {
	return func(s *Server) {
		s.deliveryHistoryHandler = history
		s.allocationPassesHandler = passes
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates the API server for fleet.
func NewServer(fleet Fleet, opts ...ServerOption) *Server {
	s := &Server{fleet: fleet, logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "HTTPServer")
	return s
}
