// Package metrics holds the Prometheus collectors shared by the lock
// manager, the scheduler and the reconciliation jobs. A nil *Metrics is
// valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "reconciler"

// Lock acquisition outcomes.
const (
	LockAcquired   = "acquired"
	LockContended  = "contended"
	LockFailOpen   = "fail_open"
	LockFailClosed = "fail_closed"
	LockBypassed   = "bypassed"
)

// Job run outcomes.
const (
	JobSucceeded = "succeeded"
	JobFailed    = "failed"
	JobPanicked  = "panicked"
)

type Metrics struct {
	JobRuns       *prometheus.CounterVec
	JobDuration   *prometheus.HistogramVec
	LockAttempts  *prometheus.CounterVec
	LeaseLost     *prometheus.CounterVec
	Transitions   *prometheus.CounterVec
	Reminders     prometheus.Counter
	BackendStatus prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		JobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Total number of job invocations by outcome",
		}, []string{"job", "outcome"}),
		JobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of job invocations",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"job"}),
		LockAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lock_attempts_total",
			Help:      "Total number of lock attempts by outcome",
		}, []string{"lock", "outcome"}),
		LeaseLost: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lease_lost_total",
			Help:      "Total number of leases found taken over during renewal",
		}, []string{"lock"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Total number of booking status transitions written",
		}, []string{"from", "to"}),
		Reminders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_reminders_total",
			Help:      "Total number of payment reminders emitted",
		}),
		BackendStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "lock_backend_ready",
			Help:      "1 when the lock backend is connected, 0 otherwise",
		}),
	}
}

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// Register registers every collector on reg.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.JobRuns,
		m.JobDuration,
		m.LockAttempts,
		m.LeaseLost,
		m.Transitions,
		m.Reminders,
		m.BackendStatus,
	)
}

func (m *Metrics) ObserveJob(job, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.JobRuns.WithLabelValues(job, outcome).Inc()
	m.JobDuration.WithLabelValues(job).Observe(d.Seconds())
}

func (m *Metrics) ObserveLock(lock, outcome string) {
	if m == nil {
		return
	}
	m.LockAttempts.WithLabelValues(lock, outcome).Inc()
}

func (m *Metrics) ObserveLeaseLost(lock string) {
	if m == nil {
		return
	}
	m.LeaseLost.WithLabelValues(lock).Inc()
}

func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) ObserveReminder() {
	if m == nil {
		return
	}
	m.Reminders.Inc()
}

func (m *Metrics) SetBackendReady(ready bool) {
	if m == nil {
		return
	}
	if ready {
		m.BackendStatus.Set(1)
		return
	}
	m.BackendStatus.Set(0)
}
