package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"booking-reconciler/internal/metrics"
	"booking-reconciler/internal/pkg/clock"
	"booking-reconciler/internal/pkg/errs"
)

const DefaultRetryBackoff = 60 * time.Second

// Dialer opens a Store. It is called at most once per backoff window.
type Dialer func(ctx context.Context) (Store, error)

type State int

const (
	// StateUnconfigured is terminal: no backend will ever be dialed.
	StateUnconfigured State = iota
	StateIdle
	StateReady
	StateUnreachable
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StateUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Connection is the lock backend capability handed to the Manager. It
// owns the dial/backoff state machine so that no retry bookkeeping lives
// in package globals.
type Connection struct {
	mu      sync.Mutex
	dial    Dialer
	store   Store
	state   State
	lastErr error
	retryAt time.Time

	backoff time.Duration
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type ConnectionOption func(*Connection)

func WithRetryBackoff(d time.Duration) ConnectionOption {
	return func(c *Connection) {
		if d > 0 {
			c.backoff = d
		}
	}
}

func WithClock(cl clock.Clock) ConnectionOption {
	return func(c *Connection) {
		if cl != nil {
			c.clock = cl
		}
	}
}

func WithLogger(l *slog.Logger) ConnectionOption {
	return func(c *Connection) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithConnectionMetrics(m *metrics.Metrics) ConnectionOption {
	return func(c *Connection) {
		c.metrics = m
	}
}

// NewConnection returns a connection that dials lazily on first use. A nil
// dial yields an unconfigured connection.
func NewConnection(dial Dialer, opts ...ConnectionOption) *Connection {
	c := &Connection{
		dial:    dial,
		state:   StateIdle,
		backoff: DefaultRetryBackoff,
		clock:   clock.NewRealClock(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if dial == nil {
		c.state = StateUnconfigured
		c.logger.Info("lock backend not configured; jobs follow the fail-open policy")
	}
	c.metrics.SetBackendReady(false)
	return c
}

// Unconfigured returns a connection that never dials.
func Unconfigured(opts ...ConnectionOption) *Connection {
	return NewConnection(nil, opts...)
}

// Static wraps an already open store, such as a MemoryStore.
func Static(store Store, opts ...ConnectionOption) *Connection {
	c := NewConnection(func(context.Context) (Store, error) { return store, nil }, opts...)
	c.store = store
	c.setState(StateReady, nil)
	return c
}

func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Store returns a usable store, dialing when idle or when the backoff
// window after a failure has passed. Errors are marked with
// errs.ErrLockBackendUnconfigured or errs.ErrLockBackendUnavailable.
func (c *Connection) Store(ctx context.Context) (Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateUnconfigured:
		return nil, errs.ErrLockBackendUnconfigured
	case StateReady:
		return c.store, nil
	case StateUnreachable:
		if c.clock.Now().Before(c.retryAt) {
			return nil, errs.Mark(c.lastErr, errs.ErrLockBackendUnavailable)
		}
		// A store kept through a command failure reconnects on its own.
		if c.store != nil {
			c.setState(StateReady, nil)
			return c.store, nil
		}
	}

	// The mutex is held across the dial so concurrent callers share one attempt.
	store, err := c.dial(ctx)
	if err != nil {
		c.fail(err)
		return nil, errs.Mark(err, errs.ErrLockBackendUnavailable)
	}
	c.store = store
	c.setState(StateReady, nil)
	return store, nil
}

// ReportFailure moves a ready connection to unreachable after a command
// error so that no new lease is attempted until the backoff window has
// passed. The store stays open: leases already held keep renewing and
// releasing through it.
func (c *Connection) ReportFailure(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return
	}
	c.fail(err)
}

func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	if c.state == StateReady {
		c.state = StateIdle
	}
	return err
}

// fail records err and arms the backoff. Callers hold mu.
func (c *Connection) fail(err error) {
	c.retryAt = c.clock.Now().Add(c.backoff)
	c.setState(StateUnreachable, err)
}

// setState logs only when the state actually changes. Callers hold mu.
func (c *Connection) setState(next State, err error) {
	prev := c.state
	c.state = next
	c.lastErr = err
	if prev == next {
		return
	}
	c.metrics.SetBackendReady(next == StateReady)
	switch next {
	case StateReady:
		c.logger.Info("lock backend connected", "previous_state", prev.String())
	case StateUnreachable:
		c.logger.Warn("lock backend unreachable",
			"previous_state", prev.String(),
			"retry_at", c.retryAt,
			"error", err)
	}
}
