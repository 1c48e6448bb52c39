package reconcile

import (
	"context"
	"log/slog"

	"booking-reconciler/internal/domain/booking"
	"booking-reconciler/internal/metrics"
	"booking-reconciler/internal/pkg/clock"
	"booking-reconciler/internal/pkg/errs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	JobBookingExpiration = "booking-expiration"
	JobPaymentReminder   = "payment-reminder"
)

var tracer = otel.Tracer("booking-reconciler/reconcile")

// Sweeper performs one pass over the candidate bookings of a job.
type Sweeper interface {
	Sweep(ctx context.Context) (SweepReport, error)
}

type expirationSweeperImpl struct {
	storage  Storage
	notifier Notifier
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewExpirationSweeper(
	storage Storage,
	notifier Notifier,
	clock clock.Clock,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) Sweeper {
	return &expirationSweeperImpl{
		storage:  storage,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
}

func (s *expirationSweeperImpl) Sweep(ctx context.Context) (report SweepReport, err error) {
	ctx, span := tracer.Start(ctx, "reconcile.booking_expiration")
	defer span.End()

	now := s.clock.Now()
	report = SweepReport{Job: JobBookingExpiration}
	defer func() { report.Duration = s.clock.Now().Sub(now) }()

	candidates, err := s.storage.BookingsByStatus(ctx, booking.ExpirableStatuses()...)
	if err != nil {
		return report, errs.Mark(errs.Wrap(err, "list expirable bookings"), errs.ErrStorageOperation)
	}
	report.Candidates = len(candidates)
	span.SetAttributes(attribute.Int("sweep.candidates", len(candidates)))

	var failures []error
	for _, b := range candidates {
		decision := booking.EvaluateExpiration(b, now)
		if !decision.ChangesStatus() {
			continue
		}
		updated, applied, err := apply(ctx, s.storage, s.logger, b, decision)
		if err != nil {
			report.Failures++
			failures = append(failures, err)
			continue
		}
		if !applied {
			report.Skipped++
			continue
		}
		report.Transitions++
		s.metrics.ObserveTransition(string(decision.From), string(decision.To))

		if err := s.notifier.BookingExpired(ctx, updated); err != nil {
			s.logger.Warn("expiry notification failed", "booking_id", b.ID, "error", err)
		}
	}

	span.SetAttributes(attribute.Int("sweep.transitions", report.Transitions))
	return report, joinFailures(JobBookingExpiration, failures)
}

// apply writes a status-changing decision. A booking that moved on since
// it was read is reported as not applied, without error.
func apply(ctx context.Context, storage Storage, logger *slog.Logger, b booking.Booking, d booking.Decision) (booking.Booking, bool, error) {
	updated, err := storage.UpdateBooking(ctx, b.ID, d.Patch)
	if errs.Is(err, errs.ErrBookingStatusMoved) || errs.Is(err, errs.ErrBookingNotFound) {
		logger.Info("booking changed since read; leaving it alone",
			"booking_id", b.ID, "from", d.From, "to", d.To)
		return booking.Booking{}, false, nil
	}
	if err != nil {
		logger.Error("booking transition failed",
			"booking_id", b.ID, "from", d.From, "to", d.To, "error", err)
		return booking.Booking{}, false, errs.Wrapf(err, "booking %s: %s -> %s", b.ID, d.From, d.To)
	}
	logger.Info("booking transitioned", "booking_id", b.ID, "from", d.From, "to", d.To)
	return updated, true, nil
}

func joinFailures(job string, failures []error) error {
	if len(failures) == 0 {
		return nil
	}
	return errs.Wrapf(errs.Join(failures...), "%s: %d booking(s) failed", job, len(failures))
}
