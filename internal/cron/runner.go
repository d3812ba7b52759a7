package cron

import (
	"context"
	"time"

	"go.uber.org/multierr"

	pkgerrors "github.com/katzeapp/katze-backend/pkg/errors"
	"github.com/katzeapp/katze-backend/pkg/logger"
	"github.com/katzeapp/katze-backend/pkg/metrics"
)

// Job is a unit of scheduled work. Name doubles as the metric label and the
// distributed lock name.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// locker is the slice of the redis client the runner needs.
type locker interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name string) error
}

// Runner executes registered jobs on a fixed interval. A redis lock per job
// keeps concurrent workers from running the same job twice.
type Runner struct {
	jobs     []Job
	locker   locker
	interval time.Duration
	lockTTL  time.Duration
	met      *metrics.CronJobMetrics
	logg     *logger.Logger
}

// NewRunner wires the scheduler dependencies.
func NewRunner(locker locker, interval, lockTTL time.Duration, met *metrics.CronJobMetrics, logg *logger.Logger) (*Runner, error) {
	if locker == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "lock provider required")
	}
	if interval <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "interval must be positive")
	}
	return &Runner{
		locker:   locker,
		interval: interval,
		lockTTL:  lockTTL,
		met:      met,
		logg:     logg,
	}, nil
}

// Register adds a job to the schedule.
func (r *Runner) Register(job Job) {
	r.jobs = append(r.jobs, job)
}

// Start blocks running the schedule until the context is cancelled. Every job
// also runs once immediately.
func (r *Runner) Start(ctx context.Context) error {
	r.RunAll(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.RunAll(ctx)
		}
	}
}

// RunAll executes every registered job once, returning the combined errors.
func (r *Runner) RunAll(ctx context.Context) error {
	var errs error
	for _, job := range r.jobs {
		if err := r.runOne(ctx, job); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (r *Runner) runOne(ctx context.Context, job Job) error {
	acquired, err := r.locker.AcquireLock(ctx, job.Name(), r.lockTTL)
	if err != nil {
		r.met.IncFailure(job.Name())
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire job lock")
	}
	if !acquired {
		if r.logg != nil {
			r.logg.Info(r.logg.WithField(ctx, "job", job.Name()), "job lock held elsewhere, skipping")
		}
		return nil
	}
	defer func() {
		if err := r.locker.ReleaseLock(ctx, job.Name()); err != nil && r.logg != nil {
			r.logg.Warn(r.logg.WithField(ctx, "job", job.Name()), "release job lock failed")
		}
	}()

	started := time.Now()
	err = job.Run(ctx)
	r.met.ObserveDuration(job.Name(), time.Since(started))

	if err != nil {
		r.met.IncFailure(job.Name())
		if r.logg != nil {
			r.logg.Error(r.logg.WithField(ctx, "job", job.Name()), "job failed", err)
		}
		return err
	}

	r.met.IncSuccess(job.Name())
	if r.logg != nil {
		r.logg.Info(r.logg.WithField(ctx, "job", job.Name()), "job completed")
	}
	return nil
}
