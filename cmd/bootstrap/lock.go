package bootstrap

import (
	"context"
	"log/slog"

	"booking-reconciler/internal/lock"
	"booking-reconciler/internal/metrics"
	"booking-reconciler/internal/pkg/clock"
	"booking-reconciler/internal/pkg/config"
	"booking-reconciler/internal/usecase/reconcile"

	"go.uber.org/fx"
)

const backendMemory = "memory"

var LockModule = fx.Module("lock",
	fx.Provide(
		NewLockConnection,
		NewLockManager,
		NewLocker,
	),
)

// NewLockConnection picks the lock backend. Redis is dialed lazily, so an
// unreachable server never blocks startup.
func NewLockConnection(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger, m *metrics.Metrics) (*lock.Connection, error) {
	opts := []lock.ConnectionOption{
		lock.WithRetryBackoff(cfg.Redis.RetryBackoff),
		lock.WithClock(clk),
		lock.WithLogger(logger),
		lock.WithConnectionMetrics(m),
	}

	var conn *lock.Connection
	switch {
	case cfg.Lock.Backend == backendMemory:
		conn = lock.Static(lock.NewMemoryStore(clk), opts...)
	case cfg.Redis.Disabled || cfg.Redis.URL == "":
		conn = lock.Unconfigured(opts...)
	default:
		dial, err := lock.RedisDialer(cfg.Redis.URL, cfg.Redis.DialTimeout)
		if err != nil {
			return nil, err
		}
		conn = lock.NewConnection(dial, opts...)
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return conn.Close()
		},
	})
	return conn, nil
}

func NewLockManager(cfg config.Config, conn *lock.Connection, logger *slog.Logger, m *metrics.Metrics) *lock.Manager {
	failOpen := cfg.ResolveFailOpen()
	logger.Info("job lock configured",
		"backend", cfg.Lock.Backend,
		"state", conn.State().String(),
		"fail_open", failOpen,
		"disabled", cfg.Lock.Disabled)

	return lock.NewManager(conn,
		lock.WithPrefix(cfg.Lock.Prefix),
		lock.WithFailOpen(failOpen),
		lock.WithDisabled(cfg.Lock.Disabled),
		lock.WithManagerLogger(logger),
		lock.WithMetrics(m),
	)
}

func NewLocker(m *lock.Manager) reconcile.Locker {
	return m
}
