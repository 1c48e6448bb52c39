package bootstrap

import (
	"log/slog"

	"booking-reconciler/cmd/bootstrap/components"
	"booking-reconciler/internal/metrics"
	"booking-reconciler/internal/pkg/clock"
	"booking-reconciler/internal/pkg/config"
	"booking-reconciler/internal/scheduler"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		NewJobRegistry,
		NewScheduler,
	),
)

func NewJobRegistry(cfg config.Config, jobs []components.ScheduledJob) (*scheduler.Registry, error) {
	registry := scheduler.NewRegistry()
	for _, j := range jobs {
		if err := registry.Register(j.Job.Name(), j.Job.Run); err != nil {
			return nil, err
		}
		if err := registry.Schedule(j.Job.Name(), j.Schedule.Cron, cfg.Jobs.TimeZone); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func NewScheduler(cfg config.Config, registry *scheduler.Registry, clk clock.Clock, logger *slog.Logger, m *metrics.Metrics) *scheduler.Scheduler {
	return scheduler.New(registry,
		scheduler.WithClock(clk),
		scheduler.WithLogger(logger),
		scheduler.WithMetrics(m),
		scheduler.WithRunOnStartup(cfg.Jobs.RunOnStartup),
	)
}

// StartScheduler ties the cron loop to the app lifecycle. Stop waits for
// running jobs until the fx stop timeout.
func StartScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: s.Start,
		OnStop:  s.Stop,
	})
}
