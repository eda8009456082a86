package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

const everySecond = "* * * * * *"

// ErrTickJobRunning is returned by Start while the job is already scheduled.
var ErrTickJobRunning = errors.New("simulation tick job is already running")

// SimulationTickJob implements ports.TickTrigger with a cron schedule that
// fires every second.
type SimulationTickJob struct {
	mu     sync.Mutex
	cron   *cron.Cron
	logger *slog.Logger
}

// NewSimulationTickJob creates a stopped tick job.
func NewSimulationTickJob(logger *slog.Logger) *SimulationTickJob {
	return &SimulationTickJob{logger: logger.With("component", "simulation_tick_job")}
}

// Start schedules fn every second on a fresh cron instance.
func (j *SimulationTickJob) Start(fn func(ctx context.Context)) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cron != nil {
		return ErrTickJobRunning
	}

	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(everySecond, func() { fn(context.Background()) }); err != nil {
		return err
	}

	c.Start()
	j.cron = c
	j.logger.InfoContext(context.Background(), "Simulation tick job started (running every second)")
	return nil
}

// Stop cancels the schedule. It does not wait for a running tick, which may
// be blocked on the lock held by the caller.
func (j *SimulationTickJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cron == nil {
		return
	}
	j.cron.Stop()
	j.cron = nil
	j.logger.InfoContext(context.Background(), "Simulation tick job stopped")
}

// Running reports whether a schedule is active.
func (j *SimulationTickJob) Running() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cron != nil
}
