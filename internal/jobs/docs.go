// Package jobs provides scheduled background tasks built on github.com/robfig/cron/v3.
//
// # Available Jobs
//
//  1. SimulationTickJob - the simulator's periodic trigger; runs its callback every second
//  2. AutoAllocationJob - runs an allocation pass on a configurable schedule
//
// # Usage
//
// The tick job is handed to the fleet controller, which starts and stops it with
// the simulation:
//
//	tick := jobs.NewSimulationTickJob(logger)
//	controller := fleet.New(depot, validator, logger, fleet.WithTickTrigger(tick))
//
// Other jobs are managed through JobManager:
//
//	manager := jobs.NewJobManager(logger, jobs.NewAutoAllocationJob(controller, "*/10 * * * * *", true, logger))
//	if err := manager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer manager.StopAll()
//
// # Scheduling
//
// Schedules use six fields, seconds first. The tick job always uses "* * * * * *".
// Runs that would overlap a still running invocation are skipped.
package jobs
