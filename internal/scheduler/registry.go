package scheduler

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"booking-reconciler/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const DefaultTimeZone = "Asia/Kolkata"

// Handler is the unit of work behind a job name.
type Handler func(ctx context.Context) error

// JobState is a point-in-time snapshot of one job. LastRun and the fields
// after it are for observability only.
type JobState struct {
	Name         string
	Schedule     string
	TimeZone     string
	Scheduled    bool
	Running      bool
	LastRun      time.Time
	LastDuration time.Duration
	LastError    string
	Runs         int64
	Failures     int64
	NextRun      time.Time
}

type job struct {
	name     string
	handler  Handler
	expr     string
	location *time.Location
	schedule cron.Schedule

	running      int
	lastRun      time.Time
	lastDuration time.Duration
	lastErr      error
	runs         int64
	failures     int64
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Registry maps job names to handlers and schedules, and owns the per-job
// run state.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*job
}

func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*job)}
}

func (r *Registry) Register(name string, handler Handler) error {
	name = strings.TrimSpace(name)
	if name == "" || handler == nil {
		return errs.New("job name and handler are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[name]; ok {
		return errs.Wrapf(errs.ErrJobAlreadyRegistered, "register %q", name)
	}
	r.jobs[name] = &job{name: name, handler: handler}
	return nil
}

// Schedule attaches a standard 5-field cron expression evaluated in the
// given IANA zone. An empty zone means DefaultTimeZone.
func (r *Registry) Schedule(name, expr, timeZone string) error {
	if timeZone == "" {
		timeZone = DefaultTimeZone
	}
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "job %q: time zone %q", name, timeZone), errs.ErrInvalidSchedule)
	}
	sched, err := parser.Parse(expr)
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "job %q: cron expression %q", name, expr), errs.ErrInvalidSchedule)
	}
	if spec, ok := sched.(*cron.SpecSchedule); ok {
		spec.Location = loc
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[name]
	if !ok {
		return errs.Wrapf(errs.ErrJobNotFound, "schedule %q", name)
	}
	j.expr = expr
	j.location = loc
	j.schedule = sched
	return nil
}

func (r *Registry) lookup(name string) (*job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[name]
	if !ok {
		return nil, errs.Wrapf(errs.ErrJobNotFound, "job %q", name)
	}
	return j, nil
}

func (r *Registry) scheduled() []*job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if j.schedule != nil {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].name < out[b].name })
	return out
}

func (r *Registry) started(j *job) {
	r.mu.Lock()
	j.running++
	r.mu.Unlock()
}

func (r *Registry) finished(j *job, at time.Time, d time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j.running--
	j.lastRun = at
	j.lastDuration = d
	j.lastErr = err
	j.runs++
	if err != nil {
		j.failures++
	}
}

// State returns the snapshot for one job.
func (r *Registry) State(name string) (JobState, error) {
	j, err := r.lookup(name)
	if err != nil {
		return JobState{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return j.snapshot(), nil
}

// States returns snapshots of every registered job ordered by name.
func (r *Registry) States() []JobState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]JobState, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j.snapshot())
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// snapshot copies j. Callers hold the registry lock.
func (j *job) snapshot() JobState {
	s := JobState{
		Name:         j.name,
		Schedule:     j.expr,
		Scheduled:    j.schedule != nil,
		Running:      j.running > 0,
		LastRun:      j.lastRun,
		LastDuration: j.lastDuration,
		Runs:         j.runs,
		Failures:     j.failures,
	}
	if j.location != nil {
		s.TimeZone = j.location.String()
	}
	if j.lastErr != nil {
		s.LastError = j.lastErr.Error()
	}
	return s
}
