package reconcile

import (
	"context"
	"log/slog"
	"time"

	"booking-reconciler/internal/domain/booking"
	"booking-reconciler/internal/metrics"
	"booking-reconciler/internal/pkg/clock"
	"booking-reconciler/internal/pkg/errs"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type paymentSweeperImpl struct {
	storage  Storage
	notifier Notifier
	policy   booking.PaymentPolicy
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewPaymentSweeper(
	storage Storage,
	notifier Notifier,
	policy booking.PaymentPolicy,
	clock clock.Clock,
	logger *slog.Logger,
	metrics *metrics.Metrics,
) (Sweeper, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &paymentSweeperImpl{
		storage:  storage,
		notifier: notifier,
		policy:   policy,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

func (s *paymentSweeperImpl) Sweep(ctx context.Context) (report SweepReport, err error) {
	ctx, span := tracer.Start(ctx, "reconcile.payment_reminder")
	defer span.End()

	now := s.clock.Now()
	report = SweepReport{Job: JobPaymentReminder}
	defer func() { report.Duration = s.clock.Now().Sub(now) }()

	candidates, err := s.storage.BookingsByStatus(ctx, booking.StatusAwaitingPayment)
	if err != nil {
		return report, errs.Mark(errs.Wrap(err, "list bookings awaiting payment"), errs.ErrStorageOperation)
	}
	report.Candidates = len(candidates)
	span.SetAttributes(attribute.Int("sweep.candidates", len(candidates)))

	var (
		failures []error
		remind   []booking.Booking
	)
	for _, b := range candidates {
		decision := s.policy.Evaluate(b, now)
		switch decision.Action {
		case booking.ActionDispute:
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
			if err := s.notifier.BookingDisputed(ctx, updated); err != nil {
				s.logger.Warn("dispute notification failed", "booking_id", b.ID, "error", err)
			}
		case booking.ActionRemind:
			remind = append(remind, b)
		}
	}

	if len(remind) > 0 {
		sent, skipped, err := s.sendReminders(ctx, remind, now)
		report.Reminders = sent
		report.Skipped += skipped
		if err != nil {
			report.Failures += len(remind) - sent - skipped
			failures = append(failures, err)
		}
	}

	span.SetAttributes(
		attribute.Int("sweep.transitions", report.Transitions),
		attribute.Int("sweep.reminders", report.Reminders),
	)
	return report, joinFailures(JobPaymentReminder, failures)
}

// sendReminders resolves the service behind every booking, then the
// service providers and customers, with one batch call each, and notifies
// each provider.
func (s *paymentSweeperImpl) sendReminders(ctx context.Context, bookings []booking.Booking, now time.Time) (sent, skipped int, err error) {
	serviceIDs := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		serviceIDs = append(serviceIDs, b.ServiceID)
	}
	services, err := s.storage.ServicesByIDs(ctx, uniqueIDs(serviceIDs))
	if err != nil {
		return 0, 0, errs.Mark(errs.Wrap(err, "load services"), errs.ErrStorageOperation)
	}
	servicesByID := make(map[uuid.UUID]booking.Service, len(services))
	for _, svc := range services {
		servicesByID[svc.ID] = svc
	}

	userIDs := make([]uuid.UUID, 0, 2*len(bookings))
	for _, b := range bookings {
		if svc, ok := servicesByID[b.ServiceID]; ok {
			userIDs = append(userIDs, svc.ProviderID)
		}
		userIDs = append(userIDs, b.CustomerID)
	}
	users, err := s.storage.UsersByIDs(ctx, uniqueIDs(userIDs))
	if err != nil {
		return 0, 0, errs.Mark(errs.Wrap(err, "load users"), errs.ErrStorageOperation)
	}
	usersByID := make(map[uuid.UUID]booking.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	var failures []error
	for _, b := range bookings {
		svc, ok := servicesByID[b.ServiceID]
		if !ok {
			s.logger.Warn("service not found; reminder skipped", "booking_id", b.ID, "service_id", b.ServiceID)
			skipped++
			continue
		}
		provider, ok := usersByID[svc.ProviderID]
		if !ok {
			s.logger.Warn("provider not found; reminder skipped", "booking_id", b.ID, "provider_id", svc.ProviderID)
			skipped++
			continue
		}
		reminder := PaymentReminder{
			Booking:  b,
			Service:  svc,
			Provider: provider,
			Customer: usersByID[b.CustomerID],
			Waiting:  b.Elapsed(now),
		}
		if err := s.notifier.PaymentReminder(ctx, reminder); err != nil {
			s.logger.Error("payment reminder failed", "booking_id", b.ID, "error", err)
			failures = append(failures, errs.Mark(errs.Wrapf(err, "remind booking %s", b.ID), errs.ErrNotificationFailure))
			continue
		}
		sent++
		s.metrics.ObserveReminder()
		s.logger.Info("payment reminder sent", "booking_id", b.ID, "provider_id", provider.ID, "waiting", reminder.Waiting)
	}
	if len(failures) > 0 {
		return sent, skipped, errs.Join(failures...)
	}
	return sent, skipped, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
