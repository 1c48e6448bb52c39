//go:build unit || e2e

package builder

import (
	"time"

	"booking-reconciler/internal/domain/booking"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID             uuid.UUID
	ServiceID      uuid.UUID
	CustomerID     uuid.UUID
	ProviderID     uuid.UUID
	Status         booking.Status
	PaymentStatus  booking.PaymentStatus
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	DisputeReason  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now()
	return &BookingBuilder{
		ID:             uuid.New(),
		ServiceID:      uuid.New(),
		CustomerID:     uuid.New(),
		ProviderID:     uuid.New(),
		Status:         booking.StatusPending,
		PaymentStatus:  booking.PaymentPending,
		ScheduledStart: now.Add(24 * time.Hour),
		ScheduledEnd:   now.Add(25 * time.Hour),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithStatus(s booking.Status) *BookingBuilder {
	b.Status = s
	return b
}

// UpdatedAgo sets UpdatedAt relative to now.
func (b *BookingBuilder) UpdatedAgo(now time.Time, d time.Duration) *BookingBuilder {
	b.UpdatedAt = now.Add(-d)
	return b
}

// SlotEndedAgo moves the scheduled slot so that it ended d before now.
func (b *BookingBuilder) SlotEndedAgo(now time.Time, d time.Duration) *BookingBuilder {
	b.ScheduledEnd = now.Add(-d)
	b.ScheduledStart = b.ScheduledEnd.Add(-time.Hour)
	return b
}

func (b *BookingBuilder) WithService(serviceID, providerID uuid.UUID) *BookingBuilder {
	b.ServiceID = serviceID
	b.ProviderID = providerID
	return b
}

func (b *BookingBuilder) Build() booking.Booking {
	return booking.Booking{
		ID:             b.ID,
		ServiceID:      b.ServiceID,
		CustomerID:     b.CustomerID,
		ProviderID:     b.ProviderID,
		Status:         b.Status,
		PaymentStatus:  b.PaymentStatus,
		ScheduledStart: b.ScheduledStart,
		ScheduledEnd:   b.ScheduledEnd,
		DisputeReason:  b.DisputeReason,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// BuildService returns the service the booking points at.
func (b *BookingBuilder) BuildService(name string) booking.Service {
	return booking.Service{ID: b.ServiceID, ProviderID: b.ProviderID, Name: name}
}
