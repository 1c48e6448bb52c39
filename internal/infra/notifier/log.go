package notifier

import (
	"context"
	"log/slog"

	"booking-reconciler/internal/domain/booking"
	"booking-reconciler/internal/pkg/clock"
	"booking-reconciler/internal/usecase/reconcile"
)

// Log records notification events in the log only. It is used when no
// broker is configured.
type Log struct {
	clock  clock.Clock
	logger *slog.Logger
}

func NewLog(clock clock.Clock, logger *slog.Logger) *Log {
	return &Log{clock: clock, logger: logger}
}

func (l *Log) PaymentReminder(ctx context.Context, r reconcile.PaymentReminder) error {
	l.emit(ctx, reminderEvent(r, l.clock.Now()))
	return nil
}

func (l *Log) BookingDisputed(ctx context.Context, b booking.Booking) error {
	l.emit(ctx, bookingEvent(EventBookingDisputed, b, l.clock.Now()))
	return nil
}

func (l *Log) BookingExpired(ctx context.Context, b booking.Booking) error {
	l.emit(ctx, bookingEvent(EventBookingExpired, b, l.clock.Now()))
	return nil
}

func (l *Log) emit(ctx context.Context, e Event) {
	attrs := []any{
		"type", e.Type,
		"booking_id", e.BookingID,
		"provider_id", e.ProviderID,
		"status", e.Status,
	}
	if e.ServiceName != "" {
		attrs = append(attrs, "service", e.ServiceName)
	}
	if e.WaitingHours > 0 {
		attrs = append(attrs, "waiting_hours", e.WaitingHours)
	}
	l.logger.InfoContext(ctx, "notification", attrs...)
}
