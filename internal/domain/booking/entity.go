package booking

import (
	"time"

	"booking-reconciler/internal/pkg/patch"

	"github.com/google/uuid"
)

// Booking is the reconciler's view of a marketplace booking row.
type Booking struct {
	ID             uuid.UUID
	ServiceID      uuid.UUID
	CustomerID     uuid.UUID
	ProviderID     uuid.UUID
	Status         Status
	PaymentStatus  PaymentStatus
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	DisputeReason  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Elapsed is measured from the last status change.
func (b Booking) Elapsed(now time.Time) time.Duration {
	return now.Sub(b.UpdatedAt)
}

func (b Booking) SlotElapsed(now time.Time) bool {
	return !b.ScheduledEnd.IsZero() && !now.Before(b.ScheduledEnd)
}

type Service struct {
	ID         uuid.UUID
	ProviderID uuid.UUID
	Name       string
}

type User struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string
}

// Patch is a partial update. ExpectedStatus, when set, guards the write
// against a row that moved on after it was read.
type Patch struct {
	Status         *Status
	DisputeReason  *string
	ExpectedStatus Status
}

func (p Patch) IsEmpty() bool {
	return p.Status == nil && p.DisputeReason == nil
}

// ApplyTo returns a copy of b with the patch applied and UpdatedAt stamped.
func (p Patch) ApplyTo(b Booking, now time.Time) Booking {
	b.Status = patch.Coalesce(p.Status, b.Status)
	b.DisputeReason = patch.Coalesce(p.DisputeReason, b.DisputeReason)
	if p.Status != nil {
		b.UpdatedAt = now
	}
	return b
}
