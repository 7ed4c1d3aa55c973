package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	StaleAssignmentJobName = "stale_assignments"

	// DefaultStaleAssignmentSchedule fires at second zero of every minute.
	DefaultStaleAssignmentSchedule = "0 * * * * *"
)

// ReleaseStaleAssignmentsHandler releases orders assigned before a cutoff.
type ReleaseStaleAssignmentsHandler interface {
	Handle(ctx context.Context, cmd commands.ReleaseStaleAssignmentsCommand) (int, error)
}

// JobObserver receives run outcomes for metrics.
type JobObserver interface {
	ObserveJobRun(job string, started time.Time, err error)
	AddReleased(n int)
}

// StaleAssignmentJob periodically releases stale assignments.
type StaleAssignmentJob struct {
	handler   ReleaseStaleAssignmentsHandler
	observer  JobObserver
	timeout   time.Duration
	batchSize int
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
	now       func() time.Time

	// ctx is handed to scheduled runs; Stop cancels it.
	ctx    context.Context
	cancel context.CancelFunc
}

func NewStaleAssignmentJob(
	handler ReleaseStaleAssignmentsHandler,
	observer JobObserver,
	timeout time.Duration,
	logger *slog.Logger,
) (*StaleAssignmentJob, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("stale assignment timeout must be positive, got %s", timeout)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &StaleAssignmentJob{
		handler:   handler,
		observer:  observer,
		timeout:   timeout,
		batchSize: commands.DefaultReleaseBatchSize,
		schedule:  DefaultStaleAssignmentSchedule,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With("component", "stale_assignment_job"),
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Start registers the job on its schedule.
func (j *StaleAssignmentJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.Run(j.ctx)
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale assignment job started",
		"schedule", j.schedule,
		"timeout", j.timeout.String(),
	)
	return nil
}

// Stop halts scheduling, cancels a running release and waits for it to return.
func (j *StaleAssignmentJob) Stop() {
	j.cancel()
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Stale assignment job stopped")
}

// Run performs one release pass and reports how many orders went back to
// pending.
func (j *StaleAssignmentJob) Run(ctx context.Context) (int, error) {
	started := j.now()

	released, err := j.run(ctx, started)
	j.observer.ObserveJobRun(StaleAssignmentJobName, started, err)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale assignment job failed", "error", err)
		return released, err
	}

	j.observer.AddReleased(released)
	if released > 0 {
		j.logger.InfoContext(ctx, "Released stale assignments", "released", released)
	}
	return released, nil
}

func (j *StaleAssignmentJob) run(ctx context.Context, started time.Time) (int, error) {
	cmd, err := commands.NewReleaseStaleAssignmentsCommand(started.Add(-j.timeout), j.batchSize)
	if err != nil {
		return 0, err
	}
	return j.handler.Handle(ctx, cmd)
}
