package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"booking-reconciler/internal/metrics"
	"booking-reconciler/internal/pkg/clock"
	"booking-reconciler/internal/pkg/errs"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Trigger labels how a run was started.
const (
	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

var tracer = otel.Tracer("booking-reconciler/scheduler")

var ErrNotRunning = errors.New("scheduler is not running")

// Scheduler fires registered jobs on their cron schedules. It gives no
// cross-process exclusivity; jobs coordinate through the lock manager.
type Scheduler struct {
	registry     *Registry
	clock        clock.Clock
	logger       *slog.Logger
	metrics      *metrics.Metrics
	runOnStartup bool

	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
	baseCtx context.Context
	started bool
	wg      sync.WaitGroup
}

type Option func(*Scheduler)

func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithRunOnStartup runs every scheduled job once when Start is called.
func WithRunOnStartup(enabled bool) Option {
	return func(s *Scheduler) {
		s.runOnStartup = enabled
	}
}

func New(registry *Registry, opts ...Option) *Scheduler {
	s := &Scheduler{
		registry:     registry,
		clock:        clock.NewRealClock(),
		logger:       slog.Default(),
		runOnStartup: true,
		entries:      make(map[string]cron.EntryID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Registry() *Registry {
	return s.registry
}

// Start registers every scheduled job with the cron runner and, when
// enabled, fires each once right away. Runs never inherit cancellation
// from ctx; Stop is the way to end them.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errs.New("scheduler already started")
	}

	s.baseCtx = context.WithoutCancel(ctx)
	s.cron = cron.New(cron.WithParser(parser), cron.WithLogger(cronLogger{s.logger}))
	jobs := s.registry.scheduled()
	for _, j := range jobs {
		j := j
		s.entries[j.name] = s.cron.Schedule(j.schedule, cron.FuncJob(func() {
			_ = s.run(s.baseCtx, j, TriggerSchedule)
		}))
	}
	s.cron.Start()
	s.started = true

	s.logger.Info("scheduler started", "jobs", len(jobs), "run_on_startup", s.runOnStartup)
	if s.runOnStartup {
		for _, j := range jobs {
			s.spawn(s.baseCtx, j, TriggerStartup)
		}
	}
	return nil
}

// Stop prevents new runs and waits for running ones until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	cronDone := s.cron.Stop()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out with jobs still running")
		return errs.Wrap(ctx.Err(), "stop scheduler")
	}
}

// RunNow runs the named job synchronously and returns its error.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	j, err := s.registry.lookup(name)
	if err != nil {
		return err
	}
	return s.run(ctx, j, TriggerManual)
}

// Trigger starts the named job in the background and returns immediately.
// It requires a started scheduler so that Stop waits for the run.
func (s *Scheduler) Trigger(name string) error {
	j, err := s.registry.lookup(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotRunning
	}
	s.spawn(s.baseCtx, j, TriggerManual)
	return nil
}

// Jobs returns every job's state, including the next due time of
// scheduled jobs while the scheduler is running.
func (s *Scheduler) Jobs() []JobState {
	states := s.registry.States()
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return states
	}
	for i := range states {
		if id, ok := s.entries[states[i].Name]; ok {
			states[i].NextRun = s.cron.Entry(id).Next
		}
	}
	return states
}

// spawn runs j in its own goroutine tracked by Stop. Callers hold mu.
func (s *Scheduler) spawn(ctx context.Context, j *job, trigger string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.run(ctx, j, trigger)
	}()
}

// run invokes the handler with panics contained, then records the outcome.
func (s *Scheduler) run(ctx context.Context, j *job, trigger string) (err error) {
	ctx, span := tracer.Start(ctx, "scheduler.run")
	span.SetAttributes(attribute.String("job.name", j.name), attribute.String("job.trigger", trigger))
	defer span.End()

	start := s.clock.Now()
	s.registry.started(j)
	s.logger.Debug("job started", "job", j.name, "trigger", trigger)

	panicked := false
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			err = errs.Newf("job %s panicked: %v", j.name, r)
		}
		elapsed := s.clock.Now().Sub(start)
		s.registry.finished(j, start, elapsed, err)

		outcome := metrics.JobSucceeded
		switch {
		case panicked:
			outcome = metrics.JobPanicked
			s.logger.Error("job panicked", "job", j.name, "trigger", trigger, "error", err,
				"stack", errs.ExtractStackLines(err, 10))
		case err != nil:
			outcome = metrics.JobFailed
			s.logger.Error("job failed", "job", j.name, "trigger", trigger, "error", err, "duration", elapsed)
		default:
			s.logger.Debug("job finished", "job", j.name, "trigger", trigger, "duration", elapsed)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.metrics.ObserveJob(j.name, outcome, elapsed)
	}()

	return j.handler(ctx)
}

// cronLogger routes robfig/cron's internal logging to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
