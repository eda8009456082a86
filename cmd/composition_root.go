package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	api "dronedelivery/internal/adapters/in/http"
	"dronedelivery/internal/adapters/in/scenario"
	"dronedelivery/internal/adapters/in/ws"
	"dronedelivery/internal/adapters/out/kafka"
	"dronedelivery/internal/adapters/out/postgres"
	"dronedelivery/internal/core/application/fleet"
	"dronedelivery/internal/core/application/simulator"
	"dronedelivery/internal/core/application/usecases/commands"
	"dronedelivery/internal/core/application/usecases/queries"
	"dronedelivery/internal/core/application/validation"
	"dronedelivery/internal/core/domain/model/kernel"
	"dronedelivery/internal/factories"
	"dronedelivery/internal/jobs"
	"dronedelivery/internal/metrics"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived component and wires them together.
type CompositionRoot struct {
	config Config
	logger *slog.Logger

	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	metrics    *metrics.Metrics
	broker     *ws.Broker
	publisher  *kafka.Publisher
	tickJob    *jobs.SimulationTickJob
	jobManager *jobs.JobManager
	controller *fleet.Controller
}

// NewCompositionRoot opens the journal and Kafka connections the config asks
// for, builds the controller and subscribes the notification sinks. Call
// Close to release them.
func NewCompositionRoot(ctx context.Context, config Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		config:  config,
		logger:  logger,
		metrics: metrics.New(),
		broker:  ws.NewBroker(),
		tickJob: jobs.NewSimulationTickJob(logger),
	}

	if err := c.openJournal(); err != nil {
		return nil, err
	}
	if err := c.openPublisher(); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.buildController(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	var scheduled []jobs.Job
	if config.AutoAllocateSchedule != "" {
		scheduled = append(scheduled, jobs.NewAutoAllocationJob(
			c.controller, config.AutoAllocateSchedule, config.AutoAllocateOptimizer, logger))
	}
	c.jobManager = jobs.NewJobManager(logger, scheduled...)

	return c, nil
}

func (c *CompositionRoot) openJournal() error {
	if !c.config.JournalEnabled() {
		return nil
	}

	db, err := postgres.OpenDB(c.config.JournalDriver, c.config.DSN())
	if err != nil {
		return err
	}
	if err := postgres.Migrate(db); err != nil {
		return fmt.Errorf("migrate journal: %w", err)
	}

	c.gormDB = db
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
	c.logger.Info("Delivery journal enabled", "driver", c.config.JournalDriver)
	return nil
}

func (c *CompositionRoot) openPublisher() error {
	if len(c.config.KafkaBrokers) == 0 {
		return nil
	}

	publisher, err := kafka.NewPublisher(c.config.KafkaBrokers, c.config.KafkaTopic, c.logger)
	if err != nil {
		return err
	}
	c.publisher = publisher
	c.logger.Info("Kafka publishing enabled", "brokers", c.config.KafkaBrokers, "topic", publisher.Topic())
	return nil
}

func (c *CompositionRoot) buildController(ctx context.Context) error {
	depot, err := kernel.NewPoint(c.config.DepotX, c.config.DepotY)
	if err != nil {
		return fmt.Errorf("depot: %w", err)
	}

	var bootstrap scenario.Scenario
	if c.config.ScenarioFile != "" {
		if bootstrap, err = scenario.Load(c.config.ScenarioFile); err != nil {
			return err
		}
		if depot, err = bootstrap.DepotPoint(depot); err != nil {
			return fmt.Errorf("scenario depot: %w", err)
		}
	}

	opts := []fleet.Option{
		fleet.WithTickTrigger(c.tickJob),
		fleet.WithCombinationCap(c.config.CombinationCap),
		fleet.WithJournal(c.metrics),
	}
	if c.uowFactory != nil {
		opts = append(opts, fleet.WithJournal(c.CreateJournal()))
	}
	c.controller = fleet.New(depot, validation.NewFieldValidator(), c.logger, opts...)

	if err := c.subscribe(); err != nil {
		return err
	}

	if c.config.ScenarioFile != "" {
		summary, err := scenario.Apply(ctx, c.controller, bootstrap)
		if err != nil {
			c.logger.Warn("Scenario partially applied", "file", c.config.ScenarioFile, "error", err)
		}
		c.logger.Info("Scenario loaded", "file", c.config.ScenarioFile,
			"vehicles", summary.Vehicles, "zones", summary.Zones, "orders", summary.Orders)
	}

	if n := c.config.RandomVehicles + c.config.RandomOrders + c.config.RandomZones; n > 0 {
		random := factories.New(c.config.RandomSeed, factories.DefaultBounds()).
			Scenario(c.config.RandomVehicles, c.config.RandomOrders, c.config.RandomZones)
		summary, err := scenario.Apply(ctx, c.controller, random)
		if err != nil {
			c.logger.Warn("Random scenario partially applied", "error", err)
		}
		c.logger.Info("Random scenario generated",
			"vehicles", summary.Vehicles, "zones", summary.Zones, "orders", summary.Orders)
	}
	return nil
}

// subscribe attaches metrics, the WebSocket broker and, when enabled, the
// Kafka publisher to every simulator channel.
func (c *CompositionRoot) subscribe() error {
	observers := []simulator.Observer{c.metrics.Observer(), c.broker.Publish}
	if c.publisher != nil {
		observers = append(observers, c.publisher.Observer())
	}

	for _, channel := range simulator.Channels() {
		for _, observer := range observers {
			if _, err := c.controller.Subscribe(channel, observer); err != nil {
				return fmt.Errorf("subscribe %s: %w", channel, err)
			}
		}
	}
	return nil
}

// Controller returns the fleet controller.
func (c *CompositionRoot) Controller() *fleet.Controller {
	return c.controller
}

// JobManager returns the scheduled jobs.
func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return c.jobManager
}

// CreateRecordDeliveryCommandHandler builds the journal write handler for deliveries.
func (c *CompositionRoot) CreateRecordDeliveryCommandHandler() commands.RecordDeliveryCommandHandler {
	var f commands.DeliveryRecordUoWFactory = FuncDeliveryRecordUoWFactory(func() commands.DeliveryRecordUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordDeliveryCommandHandler(f)
}

// CreateRecordAllocationPassCommandHandler builds the journal write handler for passes.
func (c *CompositionRoot) CreateRecordAllocationPassCommandHandler() commands.RecordAllocationPassCommandHandler {
	var f commands.AllocationPassUoWFactory = FuncAllocationPassUoWFactory(func() commands.AllocationPassUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordAllocationPassCommandHandler(f)
}

// CreateJournal builds the persistent journal the controller writes to.
func (c *CompositionRoot) CreateJournal() *commands.Journal {
	return commands.NewJournal(c.CreateRecordDeliveryCommandHandler(), c.CreateRecordAllocationPassCommandHandler())
}

func (c *CompositionRoot) CreateGetDeliveryHistoryQueryHandler() queries.GetDeliveryHistoryQueryHandler {
	return queries.NewGetDeliveryHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllocationPassesQueryHandler() queries.GetAllocationPassesQueryHandler {
	return queries.NewGetAllocationPassesQueryHandler(c.gormDB)
}

// Router builds the HTTP router with metrics and the notification stream.
func (c *CompositionRoot) Router() *echo.Echo {
	opts := []api.ServerOption{api.WithLogger(c.logger)}
	if c.gormDB != nil {
		opts = append(opts, api.WithJournalQueries(
			c.CreateGetDeliveryHistoryQueryHandler(),
			c.CreateGetAllocationPassesQueryHandler(),
		))
	}

	return api.NewRouter(api.NewServer(c.controller, opts...),
		api.WithMetrics(c.metrics.Handler(), c.metrics.Middleware()),
		api.WithEvents(ws.NewHandler(c.broker, c.logger).Serve),
		api.WithRateLimit(c.config.HTTPRateLimit),
	)
}

// Close stops the simulation and releases connections. Jobs are stopped by
// their JobManager.
func (c *CompositionRoot) Close() error {
	var failed []error
	if c.controller != nil {
		c.controller.StopSimulation(context.Background())
	}
	c.broker.Close()
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			failed = append(failed, fmt.Errorf("close kafka publisher: %w", err))
		}
	}
	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				failed = append(failed, fmt.Errorf("close journal: %w", err))
			}
		}
	}
	return errors.Join(failed...)
}

type FuncDeliveryRecordUoWFactory func() commands.DeliveryRecordUoW

func (f FuncDeliveryRecordUoWFactory) Create() commands.DeliveryRecordUoW {
	return f()
}

type FuncAllocationPassUoWFactory func() commands.AllocationPassUoW

func (f FuncAllocationPassUoWFactory) Create() commands.AllocationPassUoW {
	return f()
}
