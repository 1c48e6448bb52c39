package reconcile

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/reconcile/ports_mock.go -package=reconcilemock

import (
	"context"
	"time"

	"booking-reconciler/internal/domain/booking"
	"booking-reconciler/internal/lock"

	"github.com/google/uuid"
)

// Storage is the booking store the sweeps read and write. UpdateBooking
// honours Patch.ExpectedStatus and fails with errs.ErrBookingStatusMoved
// when the row has moved on.
type Storage interface {
	BookingsByStatus(ctx context.Context, statuses ...booking.Status) ([]booking.Booking, error)
	UpdateBooking(ctx context.Context, id uuid.UUID, patch booking.Patch) (booking.Booking, error)
	ServicesByIDs(ctx context.Context, ids []uuid.UUID) ([]booking.Service, error)
	UsersByIDs(ctx context.Context, ids []uuid.UUID) ([]booking.User, error)
}

// Notifier emits side effects for state changes. Delivery is someone
// else's concern; a Notifier only has to hand the event off.
type Notifier interface {
	PaymentReminder(ctx context.Context, r PaymentReminder) error
	BookingDisputed(ctx context.Context, b booking.Booking) error
	BookingExpired(ctx context.Context, b booking.Booking) error
}

type Locker interface {
	WithLock(ctx context.Context, name string, opts lock.Options, fn func(ctx context.Context) error) (lock.Result, error)
}

// PaymentReminder asks a provider to confirm a payment. Customer is the
// zero value when the customer record could not be found.
type PaymentReminder struct {
	Booking  booking.Booking
	Service  booking.Service
	Provider booking.User
	Customer booking.User
	Waiting  time.Duration
}
