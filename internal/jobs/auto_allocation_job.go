package jobs

import (
	"context"
	"log/slog"

	"dronedelivery/internal/core/application/fleet"

	"github.com/robfig/cron/v3"
)

// DeliveryProcessor runs allocation passes.
type DeliveryProcessor interface {
	ProcessDeliveries(ctx context.Context, useOptimizer bool) (fleet.ProcessResult, error)
}

// AutoAllocationJob runs an allocation pass on a schedule.
type AutoAllocationJob struct {
	processor    DeliveryProcessor
	schedule     string
	useOptimizer bool
	cron         *cron.Cron
	logger       *slog.Logger
}

// NewAutoAllocationJob creates a job running processor on schedule (six
// fields, seconds first).
func NewAutoAllocationJob(processor DeliveryProcessor, schedule string, useOptimizer bool, logger *slog.Logger) *AutoAllocationJob {
	return &AutoAllocationJob{
		processor:    processor,
		schedule:     schedule,
		useOptimizer: useOptimizer,
		cron:         cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:       logger.With("component", "auto_allocation_job"),
	}
}

// Name identifies the job in JobManager errors.
func (j *AutoAllocationJob) Name() string {
	return "auto allocation"
}

// Start schedules the job. Returns an error for an invalid schedule.
func (j *AutoAllocationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auto allocation job started", "schedule", j.schedule)
	return nil
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *AutoAllocationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Auto allocation job stopped")
}

func (j *AutoAllocationJob) run() {
	ctx := context.Background()

	result, err := j.processor.ProcessDeliveries(ctx, j.useOptimizer)
	if err != nil {
		j.logger.ErrorContext(ctx, "Auto allocation job failed", "error", err)
		return
	}
	if result.Trips > 0 {
		j.logger.InfoContext(ctx, "Auto allocation dispatched trips",
			"trips", result.Trips, "allocated", result.Allocated, "unallocated", len(result.Unallocated))
	}
}
