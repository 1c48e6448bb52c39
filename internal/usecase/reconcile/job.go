package reconcile

import (
	"context"
	"log/slog"

	"booking-reconciler/internal/lock"
)

// Job runs a sweep under the job's lease. It is the handler registered
// with the scheduler.
type Job struct {
	name    string
	locker  Locker
	sweeper Sweeper
	opts    lock.Options
	logger  *slog.Logger
}

func NewJob(name string, locker Locker, sweeper Sweeper, opts lock.Options, logger *slog.Logger) *Job {
	return &Job{
		name:    name,
		locker:  locker,
		sweeper: sweeper,
		opts:    opts,
		logger:  logger.With("job", name),
	}
}

func (j *Job) Name() string {
	return j.name
}

// Run returns the sweep error, if any. A lease held elsewhere is not an
// error: the run is skipped.
func (j *Job) Run(ctx context.Context) error {
	var report SweepReport
	res, err := j.locker.WithLock(ctx, j.name, j.opts, func(ctx context.Context) error {
		var sweepErr error
		report, sweepErr = j.sweeper.Sweep(ctx)
		return sweepErr
	})
	if !res.Acquired {
		if err == nil {
			j.logger.Debug("run skipped; lock not acquired", "degraded", res.Degraded)
		}
		return err
	}

	attrs := []any{"report", report, "degraded", res.Degraded}
	if res.LeaseLost {
		attrs = append(attrs, "lease_lost", true)
	}
	if err != nil {
		j.logger.Warn("sweep finished with failures", append(attrs, "error", err)...)
		return err
	}
	j.logger.Info("sweep finished", attrs...)
	return nil
}
