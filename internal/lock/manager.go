package lock

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"booking-reconciler/internal/metrics"
	"booking-reconciler/internal/pkg/errs"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultPrefix = "locks:jobs"

	// cleanupTimeout bounds release calls, which run on a context detached
	// from the caller so that a cancelled job still gives its lease back.
	cleanupTimeout = 5 * time.Second
)

var (
	ErrInvalidTTL = errors.New("lock: ttl must be positive")

	// ErrLeaseLost is the cancellation cause seen by fn when
	// Options.CancelOnLeaseLoss is set and a renewal finds another holder.
	ErrLeaseLost = errors.New("lock: lease lost to another holder")
)

var tracer = otel.Tracer("booking-reconciler/lock")

type Options struct {
	TTL time.Duration
	// RefreshInterval defaults to TTL/2.
	RefreshInterval time.Duration
	// FailOpen overrides the manager default when non-nil.
	FailOpen *bool
	// CancelOnLeaseLoss cancels the context passed to fn once a renewal
	// confirms that the lease belongs to someone else. Off by default: fn
	// normally runs to completion.
	CancelOnLeaseLoss bool
}

type Result struct {
	// Acquired reports whether fn was called.
	Acquired bool
	// Degraded reports that the backend was unusable and the fail-open
	// policy decided the outcome.
	Degraded bool
	// LeaseLost reports that a renewal found the lease taken over while fn ran.
	LeaseLost bool
}

type Manager struct {
	conn     *Connection
	prefix   string
	failOpen bool
	disabled bool
	logger   *slog.Logger
	metrics  *metrics.Metrics
	newToken func() string
}

type ManagerOption func(*Manager)

func WithPrefix(prefix string) ManagerOption {
	return func(m *Manager) {
		if prefix != "" {
			m.prefix = prefix
		}
	}
}

// WithFailOpen sets the default degraded-mode policy.
func WithFailOpen(failOpen bool) ManagerOption {
	return func(m *Manager) {
		m.failOpen = failOpen
	}
}

// WithDisabled bypasses locking entirely.
func WithDisabled(disabled bool) ManagerOption {
	return func(m *Manager) {
		m.disabled = disabled
	}
}

func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithMetrics(mt *metrics.Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = mt
	}
}

func WithTokenSource(f func() string) ManagerOption {
	return func(m *Manager) {
		if f != nil {
			m.newToken = f
		}
	}
}

func NewManager(conn *Connection, opts ...ManagerOption) *Manager {
	if conn == nil {
		conn = Unconfigured()
	}
	m := &Manager{
		conn:     conn,
		prefix:   DefaultPrefix,
		failOpen: true,
		logger:   slog.Default(),
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key returns the namespaced key for a lock name.
func (m *Manager) Key(name string) string {
	return m.prefix + ":" + name
}

func (m *Manager) Connection() *Connection {
	return m.conn
}

// WithLock runs fn only if the named lease can be acquired. Among
// concurrent claimants on a reachable backend, exactly one runs fn. The
// error returned is fn's error; lock bookkeeping problems are logged.
func (m *Manager) WithLock(ctx context.Context, name string, opts Options, fn func(ctx context.Context) error) (Result, error) {
	if opts.TTL <= 0 {
		return Result{}, ErrInvalidTTL
	}
	if m.disabled {
		m.metrics.ObserveLock(name, metrics.LockBypassed)
		return Result{Acquired: true}, fn(ctx)
	}

	key := m.Key(name)
	ctx, span := tracer.Start(ctx, "lock.WithLock")
	span.SetAttributes(attribute.String("lock.key", key))
	defer span.End()

	store, err := m.conn.Store(ctx)
	if err != nil {
		return m.degraded(ctx, name, opts, err, fn)
	}

	token := m.newToken()
	acquired, err := store.Acquire(ctx, key, token, opts.TTL)
	if err != nil {
		if isConnectionError(err) {
			m.conn.ReportFailure(err)
		}
		return m.degraded(ctx, name, opts, errs.Mark(err, errs.ErrLockBackendUnavailable), fn)
	}
	if !acquired {
		m.metrics.ObserveLock(name, metrics.LockContended)
		span.SetAttributes(attribute.Bool("lock.acquired", false))
		m.logger.Debug("lock held elsewhere; skipping", "lock", key)
		return Result{}, nil
	}
	m.metrics.ObserveLock(name, metrics.LockAcquired)
	span.SetAttributes(attribute.Bool("lock.acquired", true))

	runCtx := ctx
	cancel := func(error) {}
	if opts.CancelOnLeaseLoss {
		runCtx, cancel = context.WithCancelCause(ctx)
	}
	defer cancel(nil)

	h := &held{
		m:     m,
		store: store,
		name:  name,
		key:   key,
		token: token,
		ttl:   opts.TTL,
		onLost: func() {
			cancel(ErrLeaseLost)
		},
	}
	stop := h.renew(ctx, refreshInterval(opts))
	defer func() {
		stop()
		h.release(ctx)
	}()

	err = fn(runCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return Result{Acquired: true, LeaseLost: h.lost.Load()}, err
}

func (m *Manager) degraded(ctx context.Context, name string, opts Options, cause error, fn func(ctx context.Context) error) (Result, error) {
	failOpen := m.failOpen
	if opts.FailOpen != nil {
		failOpen = *opts.FailOpen
	}
	if !failOpen {
		m.metrics.ObserveLock(name, metrics.LockFailClosed)
		m.logger.Debug("lock backend unusable; failing closed", "lock", m.Key(name), "error", cause)
		return Result{Degraded: true}, nil
	}
	m.metrics.ObserveLock(name, metrics.LockFailOpen)
	m.logger.Debug("lock backend unusable; running without lock", "lock", m.Key(name), "error", cause)
	return Result{Acquired: true, Degraded: true}, fn(ctx)
}

func refreshInterval(opts Options) time.Duration {
	if opts.RefreshInterval > 0 {
		return opts.RefreshInterval
	}
	interval := opts.TTL / 2
	if interval <= 0 {
		interval = opts.TTL
	}
	return interval
}

// held is one acquired lease.
type held struct {
	m      *Manager
	store  Store
	name   string
	key    string
	token  string
	ttl    time.Duration
	lost   atomic.Bool
	onLost func()
}

// renew extends the lease every interval until the returned stop func is
// called or a refresh finds the token gone. Stop waits for the loop to exit.
func (h *held) renew(ctx context.Context, interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	finished := make(chan struct{})
	detached := context.WithoutCancel(ctx)

	go func() {
		defer close(finished)
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				rctx, cancel := context.WithTimeout(detached, cleanupTimeout)
				ok, err := h.store.Refresh(rctx, h.key, h.token, h.ttl)
				cancel()
				if err != nil {
					// The lease expires on its own if this keeps failing.
					h.m.logger.Warn("lock refresh failed", "lock", h.key, "error", err)
					continue
				}
				if !ok {
					h.lost.Store(true)
					h.m.metrics.ObserveLeaseLost(h.name)
					h.m.logger.Warn("lock lease lost; renewal stopped", "lock", h.key)
					h.onLost()
					return
				}
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
		<-finished
	}
}

func (h *held) release(ctx context.Context) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()
	released, err := h.store.Release(rctx, h.key, h.token)
	if err != nil {
		h.m.logger.Warn("lock release failed; lease will expire on its own", "lock", h.key, "error", err)
		return
	}
	if !released {
		h.m.logger.Debug("lock already gone at release", "lock", h.key)
	}
}
