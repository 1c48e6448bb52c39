package components

import (
	"log/slog"
	"time"

	"booking-reconciler/internal/domain/booking"
	"booking-reconciler/internal/lock"
	"booking-reconciler/internal/metrics"
	"booking-reconciler/internal/pkg/clock"
	"booking-reconciler/internal/pkg/config"
	"booking-reconciler/internal/usecase/reconcile"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		NewReconcileJobs,
	),
)

type JobSchedule struct {
	Name    string
	Cron    string
	LockTTL time.Duration
}

// JobSchedules lists every reconciliation job with its configured cadence.
func JobSchedules(cfg config.Config) []JobSchedule {
	return []JobSchedule{
		{Name: reconcile.JobBookingExpiration, Cron: cfg.Jobs.BookingExpirationCron, LockTTL: cfg.Lock.TTL()},
		{Name: reconcile.JobPaymentReminder, Cron: cfg.Jobs.PaymentReminderCron, LockTTL: cfg.Lock.PaymentReminderTTL()},
	}
}

type ScheduledJob struct {
	Job      *reconcile.Job
	Schedule JobSchedule
}

type JobsParams struct {
	fx.In

	Config   config.Config
	Storage  reconcile.Storage
	Notifier reconcile.Notifier
	Locker   reconcile.Locker
	Clock    clock.Clock
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

func NewReconcileJobs(p JobsParams) ([]ScheduledJob, error) {
	policy, err := booking.NewPaymentPolicy(p.Config.Jobs.ReminderAfter(), p.Config.Jobs.DisputeAfter())
	if err != nil {
		return nil, err
	}
	payment, err := reconcile.NewPaymentSweeper(p.Storage, p.Notifier, policy, p.Clock, p.Logger, p.Metrics)
	if err != nil {
		return nil, err
	}
	sweepers := map[string]reconcile.Sweeper{
		reconcile.JobBookingExpiration: reconcile.NewExpirationSweeper(p.Storage, p.Notifier, p.Clock, p.Logger, p.Metrics),
		reconcile.JobPaymentReminder:   payment,
	}

	var jobs []ScheduledJob
	for _, s := range JobSchedules(p.Config) {
		opts := lock.Options{
			TTL:               s.LockTTL,
			RefreshInterval:   p.Config.Lock.RefreshInterval(),
			CancelOnLeaseLoss: p.Config.Lock.CancelOnLoss,
		}
		jobs = append(jobs, ScheduledJob{
			Job:      reconcile.NewJob(s.Name, p.Locker, sweepers[s.Name], opts, p.Logger),
			Schedule: s,
		})
	}
	return jobs, nil
}
